// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/bazaar-backend/internal/config"
	"github.com/javajoker/bazaar-backend/internal/models"
)

var (
	ErrFileTooLarge      = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeForbidden = errors.New("file type is not allowed")
)

type StorageService struct {
	s3Client s3iface.S3API
	aws      config.AWSConfig
	limits   config.CatalogConfig
	localURL string
	localDir string
}

type UploadResult struct {
	URL       string           `json:"url"`
	Key       string           `json:"key"`
	Size      int64            `json:"size"`
	MimeType  string           `json:"mime_type"`
	MediaType models.MediaType `json:"media_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		aws:      cfg.AWS,
		limits:   cfg.Catalog,
		localURL: fmt.Sprintf("http://%s:%s/uploads", cfg.Server.Host, cfg.Server.Port),
		localDir: "./uploads",
	}

	if cfg.AWS.AccessKeyID == "" {
		// Without credentials uploads land on disk and are served from /uploads.
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

// UploadOptionsFor returns the limits for a product media type.
func (s *StorageService) UploadOptionsFor(mediaType models.MediaType) UploadOptions {
	if mediaType == models.MediaTypeVideo {
		return UploadOptions{
			Folder:       "products/videos",
			MaxSize:      int64(s.limits.MaxVideoSizeMB) * 1024 * 1024,
			AllowedTypes: []string{"video/mp4", "video/webm"},
		}
	}
	return UploadOptions{
		Folder:       "products/images",
		MaxSize:      int64(s.limits.MaxImageSizeMB) * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
}

// UploadMedia stores one product image or video and returns its public URL.
func (s *StorageService) UploadMedia(ctx context.Context, file multipart.File, header *multipart.FileHeader, mediaType models.MediaType) (*UploadResult, error) {
	options := s.UploadOptionsFor(mediaType)

	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, header.Size, options.MaxSize)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := sniffContentType(data)
	if !allowedType(contentType, options.AllowedTypes) {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeForbidden, contentType)
	}

	key := generateObjectKey(header.Filename, options.Folder, time.Now())
	result := &UploadResult{
		Key:       key,
		Size:      int64(len(data)),
		MimeType:  contentType,
		MediaType: mediaType,
	}

	if s.s3Client == nil {
		if err := s.writeLocal(key, data); err != nil {
			return nil, err
		}
		result.URL = s.localURL + "/" + key
		logrus.WithField("key", key).Debug("S3 not configured, stored media on local disk")
		return result, nil
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	result.URL = s.publicURL(key)
	return result, nil
}

func (s *StorageService) DeleteMedia(ctx context.Context, key string) error {
	if s.s3Client == nil {
		path, err := s.localPath(key)
		if err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete local file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// RemoveMediaURLs deletes the stored objects behind urls. URLs this service
// did not issue are skipped, and failures are only logged.
func (s *StorageService) RemoveMediaURLs(ctx context.Context, urls []string) {
	for _, u := range urls {
		key, ok := s.keyForURL(u)
		if !ok {
			continue
		}
		if err := s.DeleteMedia(ctx, key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to remove stale product media")
		}
	}
}

func (s *StorageService) keyForURL(u string) (string, bool) {
	prefixes := []string{s.localURL + "/"}
	if s.s3Client != nil {
		prefixes = []string{s.publicURL("")}
	}
	for _, prefix := range prefixes {
		if key := strings.TrimPrefix(u, prefix); key != u && key != "" {
			return key, true
		}
	}
	return "", false
}

func (s *StorageService) writeLocal(key string, data []byte) error {
	path, err := s.localPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write local file: %w", err)
	}
	return nil
}

// localPath keeps keys inside the upload directory.
func (s *StorageService) localPath(key string) (string, error) {
	root := filepath.Clean(s.localDir)
	path := filepath.Join(root, filepath.FromSlash(key))
	if !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return path, nil
}

func (s *StorageService) publicURL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.aws.S3Bucket, s.aws.Region, key)
}

// sniffContentType looks at the file signature, not the client's header.
func sniffContentType(data []byte) string {
	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return contentType
}

func allowedType(contentType string, allowed []string) bool {
	for _, t := range allowed {
		if contentType == t {
			return true
		}
	}
	return false
}

func generateObjectKey(originalName, folder string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%s_%s%s", now.Format("20060102"), uuid.New().String()[:8], ext)

	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}
