package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/repository"
)

// fakeProductStore keeps the four product tables in memory. Transaction
// snapshots the tables and restores them when fn fails, so nested calls
// behave like savepoints.
type fakeProductStore struct {
	categories   map[uuid.UUID]models.Category
	products     map[uuid.UUID]models.Product
	translations map[uuid.UUID]models.ProductTranslation
	media        map[uuid.UUID]models.ProductMedia
	attributes   map[uuid.UUID]models.ProductAttribute

	failOn map[string]error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{
		categories:   make(map[uuid.UUID]models.Category),
		products:     make(map[uuid.UUID]models.Product),
		translations: make(map[uuid.UUID]models.ProductTranslation),
		media:        make(map[uuid.UUID]models.ProductMedia),
		attributes:   make(map[uuid.UUID]models.ProductAttribute),
		failOn:       make(map[string]error),
	}
}

type fakeMediaRemover struct {
	removed [][]string
}

func (f *fakeMediaRemover) RemoveMediaURLs(ctx context.Context, urls []string) {
	f.removed = append(f.removed, urls)
}

type fakeSnapshot struct {
	products     map[uuid.UUID]models.Product
	translations map[uuid.UUID]models.ProductTranslation
	media        map[uuid.UUID]models.ProductMedia
	attributes   map[uuid.UUID]models.ProductAttribute
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *fakeProductStore) snapshot() fakeSnapshot {
	return fakeSnapshot{
		products:     cloneMap(s.products),
		translations: cloneMap(s.translations),
		media:        cloneMap(s.media),
		attributes:   cloneMap(s.attributes),
	}
}

func (s *fakeProductStore) restore(snap fakeSnapshot) {
	s.products = snap.products
	s.translations = snap.translations
	s.media = snap.media
	s.attributes = snap.attributes
}

func (s *fakeProductStore) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *fakeProductStore) Transaction(ctx context.Context, fn func(store repository.ProductStore) error) error {
	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *fakeProductStore) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrCategoryNotFound, id)
	}
	return &c, nil
}

func (s *fakeProductStore) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s *fakeProductStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.fail("CreateProduct"); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.fail("UpdateProduct"); err != nil {
		return err
	}
	if _, ok := s.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	s.products[product.ID] = *product
	return nil
}

func (s *fakeProductStore) UpsertTranslation(ctx context.Context, translation *models.ProductTranslation) error {
	if err := s.fail("UpsertTranslation"); err != nil {
		return err
	}
	for id, t := range s.translations {
		if t.ProductID == translation.ProductID && t.Language == translation.Language {
			translation.ID = id
			s.translations[id] = *translation
			return nil
		}
	}
	translation.ID = uuid.New()
	s.translations[translation.ID] = *translation
	return nil
}

func (s *fakeProductStore) FindTranslations(ctx context.Context, productID uuid.UUID, languages []models.Language) ([]models.ProductTranslation, error) {
	wanted := make(map[models.Language]bool, len(languages))
	for _, l := range languages {
		wanted[l] = true
	}

	var out []models.ProductTranslation
	for _, t := range s.translations {
		if t.ProductID == productID && wanted[t.Language] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeProductStore) ListMedia(ctx context.Context, productID uuid.UUID) ([]models.ProductMedia, error) {
	if err := s.fail("ListMedia"); err != nil {
		return nil, err
	}
	return s.mediaOf(productID), nil
}

func (s *fakeProductStore) InsertMedia(ctx context.Context, media []models.ProductMedia) error {
	if len(media) == 0 {
		return nil
	}
	if err := s.fail("InsertMedia"); err != nil {
		return err
	}
	for _, m := range media {
		m.ID = uuid.New()
		s.media[m.ID] = m
	}
	return nil
}

func (s *fakeProductStore) UpdateMediaOrder(ctx context.Context, id uuid.UUID, sortOrder int, isPrimary bool) error {
	if err := s.fail("UpdateMediaOrder"); err != nil {
		return err
	}
	m := s.media[id]
	m.SortOrder = sortOrder
	m.IsPrimary = isPrimary
	s.media[id] = m
	return nil
}

func (s *fakeProductStore) DeleteMedia(ctx context.Context, ids []uuid.UUID) error {
	if err := s.fail("DeleteMedia"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(s.media, id)
	}
	return nil
}

func (s *fakeProductStore) ListAttributes(ctx context.Context, productID uuid.UUID, lang models.Language) ([]models.ProductAttribute, error) {
	if err := s.fail("ListAttributes"); err != nil {
		return nil, err
	}

	var out []models.ProductAttribute
	for _, a := range s.attributesOf(productID) {
		if a.LanguageCode == nil || *a.LanguageCode == lang {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeProductStore) InsertAttributes(ctx context.Context, attributes []models.ProductAttribute) error {
	if len(attributes) == 0 {
		return nil
	}
	if err := s.fail("InsertAttributes"); err != nil {
		return err
	}
	for _, a := range attributes {
		a.ID = uuid.New()
		s.attributes[a.ID] = a
	}
	return nil
}

func (s *fakeProductStore) UpdateAttribute(ctx context.Context, id uuid.UUID, value string, sortOrder int) error {
	if err := s.fail("UpdateAttribute"); err != nil {
		return err
	}
	a := s.attributes[id]
	a.AttributeValue = value
	a.SortOrder = sortOrder
	s.attributes[id] = a
	return nil
}

func (s *fakeProductStore) DeleteAttributes(ctx context.Context, ids []uuid.UUID) error {
	if err := s.fail("DeleteAttributes"); err != nil {
		return err
	}
	for _, id := range ids {
		delete(s.attributes, id)
	}
	return nil
}

func (s *fakeProductStore) mediaOf(productID uuid.UUID) []models.ProductMedia {
	var out []models.ProductMedia
	for _, m := range s.media {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (s *fakeProductStore) attributesOf(productID uuid.UUID) []models.ProductAttribute {
	var out []models.ProductAttribute
	for _, a := range s.attributes {
		if a.ProductID == productID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].AttributeKey < out[j].AttributeKey
	})
	return out
}

func (s *fakeProductStore) translationOf(productID uuid.UUID, lang models.Language) (models.ProductTranslation, bool) {
	for _, t := range s.translations {
		if t.ProductID == productID && t.Language == lang {
			return t, true
		}
	}
	return models.ProductTranslation{}, false
}

// fakeCatalogStore serves fixed rows and records how it was queried.
type fakeCatalogStore struct {
	rows       []models.CatalogProduct
	sellers    []models.SellerVerification
	attributes []models.ProductAttribute
	err        error

	lastFilter     repository.CatalogFilter
	attributeCalls int
	sellerCalls    int
}

func (s *fakeCatalogStore) ListCatalogProducts(ctx context.Context, filter repository.CatalogFilter) ([]models.CatalogProduct, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}

	rows := make([]models.CatalogProduct, 0, len(s.rows))
	for _, r := range s.rows {
		if filter.Limit > 0 && len(rows) == filter.Limit {
			break
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (s *fakeCatalogStore) ApprovedSellers(ctx context.Context) ([]models.SellerVerification, error) {
	s.sellerCalls++
	return s.sellers, nil
}

func (s *fakeCatalogStore) SearchAttributes(ctx context.Context, keys []string) ([]models.ProductAttribute, error) {
	s.attributeCalls++
	return s.attributes, nil
}

func langPtr(l models.Language) *models.Language {
	return &l
}
