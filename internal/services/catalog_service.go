// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/repository"
	"github.com/javajoker/bazaar-backend/internal/search"
)

// Attribute keys loaded for search. material and style are searched as tags.
var searchAttributeKeys = []string{"color", "size", "tags", "material", "style"}

type CatalogParams struct {
	Status       *models.ProductStatus
	CategoryID   *uuid.UUID
	CategorySlug string
	Featured     *bool
	Limit        int
	SellerID     *uuid.UUID
	Search       string
}

type CatalogService struct {
	store   repository.CatalogStore
	sellers *SellerDirectory
}

func NewCatalogService(store repository.CatalogStore, sellers *SellerDirectory) *CatalogService {
	return &CatalogService{store: store, sellers: sellers}
}

type attributeGroups struct {
	colors []string
	sizes  []string
	tags   []string
}

// ListProducts returns catalog rows newest first, or by relevance when the
// search query is long enough. Limit caps the database fetch, so a search
// only ranks within the fetched rows.
func (s *CatalogService) ListProducts(ctx context.Context, params CatalogParams) ([]models.CatalogProduct, error) {
	query := search.NewQuery(params.Search)

	sellerNames, err := s.sellers.ApprovedSellers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sellers: %w", err)
	}

	var (
		matchedSellers map[uuid.UUID]bool
		groups         map[uuid.UUID]*attributeGroups
	)
	if query.Active() {
		matchedSellers = matchSellers(sellerNames, query)

		attributes, err := s.store.SearchAttributes(ctx, searchAttributeKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to load search attributes: %w", err)
		}
		groups = groupSearchAttributes(attributes)
	}

	rows, err := s.store.ListCatalogProducts(ctx, repository.CatalogFilter{
		Status:     params.Status,
		CategoryID: params.CategoryID,
		Featured:   params.Featured,
		SellerID:   params.SellerID,
		Limit:      params.Limit,
	})
	if err != nil {
		return nil, err
	}

	for i := range rows {
		if name, ok := sellerNames[rows[i].SellerID]; ok {
			rows[i].SellerBusinessName = name
		}
	}

	if params.CategorySlug != "" {
		rows = filterByCategorySlug(rows, params.CategorySlug)
	}

	if !query.Active() {
		return rows, nil
	}

	return search.Rank(rows, query, func(p models.CatalogProduct) search.Document {
		return catalogDocument(&p, groups[p.ID], matchedSellers[p.SellerID])
	}), nil
}

func matchSellers(names map[uuid.UUID]string, q search.Query) map[uuid.UUID]bool {
	matched := make(map[uuid.UUID]bool)
	for id, name := range names {
		if strings.Contains(search.Fold(name), q.Text()) {
			matched[id] = true
		}
	}
	return matched
}

func groupSearchAttributes(attributes []models.ProductAttribute) map[uuid.UUID]*attributeGroups {
	groups := make(map[uuid.UUID]*attributeGroups)
	for _, a := range attributes {
		g, ok := groups[a.ProductID]
		if !ok {
			g = &attributeGroups{}
			groups[a.ProductID] = g
		}

		values := splitAttributeValue(a.AttributeValue)
		switch a.AttributeKey {
		case "color":
			g.colors = append(g.colors, values...)
		case "size":
			g.sizes = append(g.sizes, values...)
		default:
			g.tags = append(g.tags, values...)
		}
	}
	return groups
}

// splitAttributeValue undoes the comma join used when list attributes are
// stored.
func splitAttributeValue(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

func filterByCategorySlug(rows []models.CatalogProduct, slug string) []models.CatalogProduct {
	filtered := rows[:0:0]
	for _, p := range rows {
		if p.Category == nil {
			continue
		}
		if p.Category.Slug == slug || (p.Category.Parent != nil && p.Category.Parent.Slug == slug) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func catalogDocument(p *models.CatalogProduct, g *attributeGroups, sellerMatched bool) search.Document {
	doc := search.Document{
		SKU:              p.SKU,
		Names:            p.Names(),
		Descriptions:     p.Descriptions(),
		Brand:            p.Metadata.Brand,
		Keywords:         p.Metadata.Keywords,
		CategoryNames:    p.Category.Names(),
		SubcategoryNames: p.Subcategory.Names(),
		SellerName:       p.SellerBusinessName,
		SellerMatched:    sellerMatched,
	}
	if p.Barcode != nil {
		doc.Barcode = *p.Barcode
	}
	if g != nil {
		doc.Colors = g.colors
		doc.Sizes = g.sizes
		doc.Tags = g.tags
	}
	return doc
}
