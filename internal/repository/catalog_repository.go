// internal/repository/catalog_repository.go
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/bazaar-backend/internal/models"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListCatalogProducts(ctx context.Context, filter CatalogFilter) ([]models.CatalogProduct, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogProduct{}).
		Preload("Category").Preload("Category.Parent").Preload("Subcategory")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var products []models.CatalogProduct
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch catalog products: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) ApprovedSellers(ctx context.Context) ([]models.SellerVerification, error) {
	var sellers []models.SellerVerification
	if err := r.db.WithContext(ctx).
		Select("seller_id", "business_name").
		Where("status = ?", models.VerificationStatusApproved).
		Find(&sellers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch approved sellers: %w", err)
	}

	return sellers, nil
}

func (r *CatalogRepository) SearchAttributes(ctx context.Context, keys []string) ([]models.ProductAttribute, error) {
	var attributes []models.ProductAttribute
	if err := r.db.WithContext(ctx).
		Select("product_id", "attribute_key", "attribute_value").
		Where("attribute_key IN ?", keys).
		Find(&attributes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch search attributes: %w", err)
	}

	return attributes, nil
}
