// internal/services/submission_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/repository"
)

var (
	ErrForbidden       = errors.New("product belongs to another seller")
	ErrInvalidLanguage = errors.New("unsupported content language")
	ErrInvalidStatus   = errors.New("unsupported product status")
)

// Attribute keys stored without a language whatever language the seller
// edits in.
var universalAttributeKeys = map[string]bool{
	"brand":         true,
	"size":          true,
	"color":         true,
	"weight":        true,
	"dimensions":    true,
	"material_code": true,
}

// ProductFormData is the seller's product form for one editing language.
type ProductFormData struct {
	Name             string                  `json:"name" validate:"max=255"`
	Description      string                  `json:"description"`
	ShortDescription string                  `json:"short_description" validate:"max=500"`
	MetaTitle        string                  `json:"meta_title" validate:"max=255"`
	MetaDescription  string                  `json:"meta_description" validate:"max=500"`
	Specifications   map[string]interface{}  `json:"specifications,omitempty"`
	CategoryID       *uuid.UUID              `json:"category_id,omitempty"`
	SubcategoryID    *uuid.UUID              `json:"subcategory_id,omitempty"`
	Price            decimal.Decimal         `json:"price" validate:"gte=0"`
	ComparePrice     decimal.NullDecimal     `json:"compare_price"`
	Quantity         int                     `json:"quantity" validate:"gte=0"`
	Barcode          string                  `json:"barcode" validate:"max=64"`
	Brand            string                  `json:"brand" validate:"max=255"`
	Keywords         []string                `json:"keywords,omitempty" validate:"max=30"`
	Attributes       map[string]interface{}  `json:"attributes,omitempty"`
	StockPerSize     map[string]int          `json:"stock_per_size,omitempty"`
	ColorImages      map[string]string       `json:"color_images,omitempty"`
	DeliveryFee      decimal.Decimal         `json:"delivery_fee" validate:"gte=0"`
	DeliveryOptions  []models.DeliveryOption `json:"delivery_options,omitempty" validate:"max=5,dive"`
}

type SaveProductInput struct {
	UserID    uuid.UUID
	ProductID *uuid.UUID
	Form      ProductFormData
	ImageURLs []string
	VideoURL  string
	Status    models.ProductStatus
	Language  models.Language
}

// SaveProductResult reports a save. Success only reflects the core product
// write; failures of the later steps are listed in Warnings.
type SaveProductResult struct {
	ProductID uuid.UUID `json:"product_id"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
}

// LoadedProduct is a stored product read back into form shape for one
// language.
type LoadedProduct struct {
	Product     *models.Product            `json:"product"`
	Translation *models.ProductTranslation `json:"translation,omitempty"`
	Language    models.Language            `json:"language"`
	Brand       string                     `json:"brand,omitempty"`
	Attributes  map[string]string          `json:"attributes"`
	ImageURLs   []string                   `json:"image_urls"`
	VideoURL    string                     `json:"video_url,omitempty"`
}

// MediaRemover deletes stored media files once no product row points at
// them anymore.
type MediaRemover interface {
	RemoveMediaURLs(ctx context.Context, urls []string)
}

type SubmissionService struct {
	store repository.ProductStore
	media MediaRemover
	now   func() time.Time
}

// NewSubmissionService builds the service. media may be nil, in which case
// dropped media files are left in storage.
func NewSubmissionService(store repository.ProductStore, media MediaRemover) *SubmissionService {
	return &SubmissionService{store: store, media: media, now: time.Now}
}

type saveStep struct {
	name string
	run  func(ctx context.Context, store repository.ProductStore, productID uuid.UUID, in *SaveProductInput) error
}

// SaveProduct writes the product core, the translation for in.Language,
// its media and its attributes in one transaction. The core write is
// fatal on failure. Each later step runs under its own savepoint: a failing
// step is rolled back and reported as a warning, and the save still succeeds.
// Files of media rows dropped by a committed save are removed afterwards.
func (s *SubmissionService) SaveProduct(ctx context.Context, in SaveProductInput) (SaveProductResult, error) {
	failed := func(err error) (SaveProductResult, error) {
		result := SaveProductResult{Success: false, Error: err.Error()}
		if in.ProductID != nil {
			result.ProductID = *in.ProductID
		}
		logrus.WithError(err).WithFields(logrus.Fields{
			"seller_id": in.UserID,
			"language":  in.Language,
		}).Error("Product save failed")
		return result, err
	}

	if !in.Language.Valid() {
		return failed(ErrInvalidLanguage)
	}
	if in.Status == "" {
		in.Status = models.ProductStatusDraft
	}
	if !in.Status.SellerSettable() {
		return failed(ErrInvalidStatus)
	}

	var (
		productID  uuid.UUID
		warnings   []string
		staleMedia []string
	)
	steps := []saveStep{
		{name: "translation", run: s.saveTranslation},
		{name: "media", run: func(ctx context.Context, store repository.ProductStore, productID uuid.UUID, in *SaveProductInput) error {
			removed, err := s.reconcileMedia(ctx, store, productID, in)
			if err == nil {
				staleMedia = removed
			}
			return err
		}},
		{name: "attributes", run: s.reconcileAttributes},
	}

	err := s.store.Transaction(ctx, func(tx repository.ProductStore) error {
		product, err := s.saveCore(ctx, tx, &in)
		if err != nil {
			return err
		}
		productID = product.ID

		for _, step := range steps {
			err := tx.Transaction(ctx, func(sp repository.ProductStore) error {
				return step.run(ctx, sp, productID, &in)
			})
			if err != nil {
				if step.name == "media" {
					staleMedia = nil
				}
				logrus.WithError(err).WithFields(logrus.Fields{
					"step":       step.name,
					"product_id": productID,
					"language":   in.Language,
				}).Warn("Product save step rolled back")
				warnings = append(warnings, fmt.Sprintf("%s: %v", step.name, err))
			}
		}
		return nil
	})
	if err != nil {
		return failed(err)
	}

	if s.media != nil && len(staleMedia) > 0 {
		s.media.RemoveMediaURLs(ctx, staleMedia)
	}
	return SaveProductResult{ProductID: productID, Success: true, Warnings: warnings}, nil
}

func (s *SubmissionService) saveCore(ctx context.Context, tx repository.ProductStore, in *SaveProductInput) (*models.Product, error) {
	var categoryName string
	if in.Form.CategoryID != nil {
		category, err := tx.FindCategory(ctx, *in.Form.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryName = category.Name
	}

	if in.ProductID != nil {
		product, err := tx.FindProduct(ctx, *in.ProductID)
		if err != nil {
			return nil, err
		}
		if product.SellerID != in.UserID {
			return nil, ErrForbidden
		}

		// Moderated products keep their status through seller edits.
		status := in.Status
		if !product.Status.SellerSettable() {
			status = product.Status
		}
		applyForm(product, in, GenerateSKU(in.Form.CategoryID, categoryName, in.Form.Name))
		product.Status = status
		if err := tx.UpdateProduct(ctx, product); err != nil {
			return nil, err
		}
		return product, nil
	}

	product := &models.Product{
		Slug:     GenerateSlug(in.Form.Name, s.now()),
		SellerID: in.UserID,
		Status:   in.Status,
	}
	applyForm(product, in, GenerateSKU(in.Form.CategoryID, categoryName, in.Form.Name))
	if err := tx.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func applyForm(product *models.Product, in *SaveProductInput, sku string) {
	form := &in.Form

	product.SKU = sku
	product.Barcode = nil
	if barcode := strings.TrimSpace(form.Barcode); barcode != "" {
		product.Barcode = &barcode
	}
	product.CategoryID = form.CategoryID
	product.SubcategoryID = form.SubcategoryID
	product.Price = form.Price
	product.ComparePrice = form.ComparePrice
	product.Quantity = form.Quantity
	product.DeliveryFee = form.DeliveryFee
	product.Metadata = models.ProductMetadata{
		Version:         models.MetadataVersion,
		StockPerSize:    form.StockPerSize,
		VideoURL:        strings.TrimSpace(in.VideoURL),
		Brand:           strings.TrimSpace(form.Brand),
		Keywords:        cleanKeywords(form.Keywords),
		ColorImages:     form.ColorImages,
		DeliveryOptions: NewDeliveryOptionsEditor(form.DeliveryOptions).Items(),
	}
	product.Name = form.Name
	product.Description = form.Description
	product.Images = pq.StringArray(uniqueURLs(in.ImageURLs))
}

func (s *SubmissionService) saveTranslation(ctx context.Context, store repository.ProductStore, productID uuid.UUID, in *SaveProductInput) error {
	specs := datatypes.JSON("{}")
	if len(in.Form.Specifications) > 0 {
		data, err := json.Marshal(in.Form.Specifications)
		if err != nil {
			return fmt.Errorf("invalid specifications: %w", err)
		}
		specs = datatypes.JSON(data)
	}

	return store.UpsertTranslation(ctx, &models.ProductTranslation{
		ProductID:        productID,
		Language:         in.Language,
		Name:             in.Form.Name,
		Description:      in.Form.Description,
		ShortDescription: in.Form.ShortDescription,
		MetaTitle:        in.Form.MetaTitle,
		MetaDescription:  in.Form.MetaDescription,
		Specifications:   specs,
	})
}

type desiredMedia struct {
	mediaType models.MediaType
	sortOrder int
	isPrimary bool
}

// reconcileMedia makes the product's media rows match the image URLs, in
// order, followed by the video. Rows are matched by URL. It returns the
// URLs that no longer back any row of the product.
func (s *SubmissionService) reconcileMedia(ctx context.Context, store repository.ProductStore, productID uuid.UUID, in *SaveProductInput) ([]string, error) {
	images := uniqueURLs(in.ImageURLs)
	video := strings.TrimSpace(in.VideoURL)

	order := make([]string, 0, len(images)+1)
	wanted := make(map[string]desiredMedia, len(images)+1)
	for i, url := range images {
		order = append(order, url)
		wanted[url] = desiredMedia{mediaType: models.MediaTypeImage, sortOrder: i, isPrimary: i == 0}
	}
	if _, isImage := wanted[video]; video != "" && !isImage {
		order = append(order, video)
		wanted[video] = desiredMedia{mediaType: models.MediaTypeVideo, sortOrder: len(images)}
	}

	existing, err := store.ListMedia(ctx, productID)
	if err != nil {
		return nil, err
	}

	kept := make(map[string]models.ProductMedia, len(existing))
	var (
		stale   []uuid.UUID
		dropped []string
	)
	for _, m := range existing {
		w, ok := wanted[m.URL]
		_, duplicate := kept[m.URL]
		if !ok || duplicate || w.mediaType != m.MediaType {
			stale = append(stale, m.ID)
			if !ok && !referencedByColor(m.URL, in.Form.ColorImages) {
				dropped = append(dropped, m.URL)
			}
			continue
		}
		kept[m.URL] = m
	}

	if err := store.DeleteMedia(ctx, stale); err != nil {
		return nil, err
	}

	var inserts []models.ProductMedia
	for _, url := range order {
		w := wanted[url]
		if m, ok := kept[url]; ok {
			if m.SortOrder != w.sortOrder || m.IsPrimary != w.isPrimary {
				if err := store.UpdateMediaOrder(ctx, m.ID, w.sortOrder, w.isPrimary); err != nil {
					return nil, err
				}
			}
			continue
		}
		inserts = append(inserts, models.ProductMedia{
			ProductID: productID,
			MediaType: w.mediaType,
			URL:       url,
			SortOrder: w.sortOrder,
			IsPrimary: w.isPrimary,
		})
	}

	if err := store.InsertMedia(ctx, inserts); err != nil {
		return nil, err
	}
	return uniqueURLs(dropped), nil
}

func referencedByColor(url string, colorImages map[string]string) bool {
	for _, u := range colorImages {
		if strings.TrimSpace(u) == url {
			return true
		}
	}
	return false
}

type attributeScope struct {
	key       string
	universal bool
}

// reconcileAttributes diffs the form's attributes against the stored ones
// in scope (universal plus in.Language). Rows of other languages are never
// touched.
func (s *SubmissionService) reconcileAttributes(ctx context.Context, store repository.ProductStore, productID uuid.UUID, in *SaveProductInput) error {
	desired := buildAttributes(productID, &in.Form, in.Language)

	existing, err := store.ListAttributes(ctx, productID, in.Language)
	if err != nil {
		return err
	}

	current := make(map[attributeScope]models.ProductAttribute, len(existing))
	var stale []uuid.UUID
	for _, a := range existing {
		scope := attributeScope{key: a.AttributeKey, universal: a.Universal()}
		if _, duplicate := current[scope]; duplicate {
			stale = append(stale, a.ID)
			continue
		}
		current[scope] = a
	}

	var inserts []models.ProductAttribute
	for _, d := range desired {
		scope := attributeScope{key: d.AttributeKey, universal: d.Universal()}
		a, ok := current[scope]
		if !ok {
			inserts = append(inserts, d)
			continue
		}
		delete(current, scope)
		if a.AttributeValue != d.AttributeValue || a.SortOrder != d.SortOrder {
			if err := store.UpdateAttribute(ctx, a.ID, d.AttributeValue, d.SortOrder); err != nil {
				return err
			}
		}
	}
	for _, a := range current {
		stale = append(stale, a.ID)
	}

	if err := store.DeleteAttributes(ctx, stale); err != nil {
		return err
	}
	return store.InsertAttributes(ctx, inserts)
}

// buildAttributes returns the brand first, then the attribute map in key
// order. Empty values are skipped.
func buildAttributes(productID uuid.UUID, form *ProductFormData, lang models.Language) []models.ProductAttribute {
	var attributes []models.ProductAttribute
	add := func(key, value string) {
		attr := models.ProductAttribute{
			ProductID:      productID,
			AttributeKey:   key,
			AttributeValue: value,
			SortOrder:      len(attributes),
		}
		if !universalAttributeKeys[key] {
			l := lang
			attr.LanguageCode = &l
		}
		attributes = append(attributes, attr)
	}

	brand := strings.TrimSpace(form.Brand)
	if brand != "" {
		add("brand", brand)
	}

	keys := make([]string, 0, len(form.Attributes))
	for k := range form.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, raw := range keys {
		key := strings.TrimSpace(raw)
		if key == "" || (key == "brand" && brand != "") {
			continue
		}
		if value, ok := attributeValue(form.Attributes[raw]); ok {
			add(key, value)
		}
	}
	return attributes
}

// attributeValue serializes a form value: booleans as "true"/"false", lists
// comma joined.
func attributeValue(v interface{}) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = strings.TrimSpace(t)
	case bool:
		s = strconv.FormatBool(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case json.Number:
		s = t.String()
	case []string:
		s = joinValues(len(t), func(i int) interface{} { return t[i] })
	case []interface{}:
		s = joinValues(len(t), func(i int) interface{} { return t[i] })
	default:
		s = fmt.Sprint(t)
	}
	return s, s != ""
}

func joinValues(n int, at func(i int) interface{}) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if v, ok := attributeValue(at(i)); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ",")
}

// LoadProduct reads a product back for editing or display in lang.
// Translations are tried in FallbackChain order. Products saved before the
// media table existed are served from the legacy images column and
// metadata video URL.
func (s *SubmissionService) LoadProduct(ctx context.Context, id uuid.UUID, lang models.Language) (*LoadedProduct, error) {
	if !lang.Valid() {
		return nil, ErrInvalidLanguage
	}

	product, err := s.store.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	chain := models.FallbackChain(lang)
	translations, err := s.store.FindTranslations(ctx, id, chain)
	if err != nil {
		return nil, err
	}

	loaded := &LoadedProduct{
		Product:    product,
		Language:   lang,
		Attributes: make(map[string]string),
	}
	if t := pickTranslation(translations, chain); t != nil {
		loaded.Translation = t
		loaded.Language = t.Language
	}

	attributes, err := s.store.ListAttributes(ctx, id, lang)
	if err != nil {
		return nil, err
	}
	// Universal rows first so a language specific value wins.
	sort.SliceStable(attributes, func(i, j int) bool {
		return attributes[i].Universal() && !attributes[j].Universal()
	})
	for _, a := range attributes {
		if a.AttributeKey == "brand" {
			loaded.Brand = a.AttributeValue
			continue
		}
		loaded.Attributes[a.AttributeKey] = a.AttributeValue
	}
	if loaded.Brand == "" {
		loaded.Brand = product.Metadata.Brand
	}

	media, err := s.store.ListMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(media) == 0 {
		loaded.ImageURLs = append([]string(nil), product.Images...)
		loaded.VideoURL = product.Metadata.VideoURL
		return loaded, nil
	}

	loaded.ImageURLs = make([]string, 0, len(media))
	for _, m := range media {
		switch m.MediaType {
		case models.MediaTypeImage:
			loaded.ImageURLs = append(loaded.ImageURLs, m.URL)
		case models.MediaTypeVideo:
			if loaded.VideoURL == "" {
				loaded.VideoURL = m.URL
			}
		}
	}
	return loaded, nil
}

func pickTranslation(translations []models.ProductTranslation, chain []models.Language) *models.ProductTranslation {
	for _, lang := range chain {
		for i := range translations {
			if translations[i].Language == lang {
				return &translations[i]
			}
		}
	}
	return nil
}

func uniqueURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func cleanKeywords(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
