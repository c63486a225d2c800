// internal/services/seller_directory.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/bazaar-backend/internal/cache"
	"github.com/javajoker/bazaar-backend/internal/models"
)

const approvedSellersCacheKey = "sellers:approved"

type approvedSellerSource interface {
	ApprovedSellers(ctx context.Context) ([]models.SellerVerification, error)
}

// SellerDirectory maps approved seller ids to their business names. Results
// are cached when a cache is configured.
type SellerDirectory struct {
	source approvedSellerSource
	cache  cache.Cache
	ttl    time.Duration
}

// NewSellerDirectory builds a directory. c may be nil to always read through.
func NewSellerDirectory(source approvedSellerSource, c cache.Cache, ttl time.Duration) *SellerDirectory {
	return &SellerDirectory{source: source, cache: c, ttl: ttl}
}

func (d *SellerDirectory) ApprovedSellers(ctx context.Context) (map[uuid.UUID]string, error) {
	if d.cache != nil {
		var cached map[uuid.UUID]string
		err := d.cache.GetJSON(ctx, approvedSellersCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logrus.WithError(err).Warn("Seller directory cache read failed")
		}
	}

	sellers, err := d.source.ApprovedSellers(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(sellers))
	for _, s := range sellers {
		names[s.SellerID] = s.BusinessName
	}

	if d.cache != nil {
		if err := d.cache.SetJSON(ctx, approvedSellersCacheKey, names, d.ttl); err != nil {
			logrus.WithError(err).Warn("Seller directory cache write failed")
		}
	}

	return names, nil
}
