// internal/repository/contract.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/javajoker/bazaar-backend/internal/models"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type CatalogFilter struct {
	Status     *models.ProductStatus
	CategoryID *uuid.UUID
	Featured   *bool
	SellerID   *uuid.UUID
	Limit      int
}

type CatalogStore interface {
	// ListCatalogProducts returns view rows newest first with category,
	// category parent and subcategory loaded.
	ListCatalogProducts(ctx context.Context, filter CatalogFilter) ([]models.CatalogProduct, error)
	ApprovedSellers(ctx context.Context) ([]models.SellerVerification, error)
	SearchAttributes(ctx context.Context, keys []string) ([]models.ProductAttribute, error)
}

// ProductStore is the write and load side of the product tables. Calling
// Transaction on a store that is already inside a transaction opens a
// savepoint: an error from fn rolls back only the work fn did.
type ProductStore interface {
	Transaction(ctx context.Context, fn func(store ProductStore) error) error

	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error

	UpsertTranslation(ctx context.Context, translation *models.ProductTranslation) error
	FindTranslations(ctx context.Context, productID uuid.UUID, languages []models.Language) ([]models.ProductTranslation, error)

	// ListMedia returns the product's media ordered by sort order.
	ListMedia(ctx context.Context, productID uuid.UUID) ([]models.ProductMedia, error)
	InsertMedia(ctx context.Context, media []models.ProductMedia) error
	UpdateMediaOrder(ctx context.Context, id uuid.UUID, sortOrder int, isPrimary bool) error
	DeleteMedia(ctx context.Context, ids []uuid.UUID) error

	// ListAttributes returns attributes scoped to lang or universal, ordered
	// by sort order.
	ListAttributes(ctx context.Context, productID uuid.UUID, lang models.Language) ([]models.ProductAttribute, error)
	InsertAttributes(ctx context.Context, attributes []models.ProductAttribute) error
	UpdateAttribute(ctx context.Context, id uuid.UUID, value string, sortOrder int) error
	DeleteAttributes(ctx context.Context, ids []uuid.UUID) error
}
