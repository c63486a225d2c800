// internal/repository/product_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/bazaar-backend/internal/models"
)

// Columns rewritten on every re-save. Slug and seller are fixed at creation.
var productUpdateColumns = []string{
	"sku", "barcode", "category_id", "subcategory_id", "price", "compare_price",
	"quantity", "status", "delivery_fee", "metadata", "name", "description",
	"images", "updated_at",
}

var translationUpsertColumns = []string{
	"name", "description", "short_description", "meta_title",
	"meta_description", "specifications", "updated_at",
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Transaction runs fn in a database transaction. gorm turns a nested call
// into a savepoint.
func (r *ProductRepository) Transaction(ctx context.Context, fn func(store ProductStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ProductRepository{db: tx})
	})
}

func (r *ProductRepository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (r *ProductRepository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select(productUpdateColumns).
		Updates(product)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) UpsertTranslation(ctx context.Context, translation *models.ProductTranslation) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns(translationUpsertColumns),
	}).Create(translation).Error
	if err != nil {
		return fmt.Errorf("failed to save %s translation: %w", translation.Language, err)
	}
	return nil
}

func (r *ProductRepository) FindTranslations(ctx context.Context, productID uuid.UUID, languages []models.Language) ([]models.ProductTranslation, error) {
	var translations []models.ProductTranslation
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND language IN ?", productID, languages).
		Find(&translations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch translations: %w", err)
	}
	return translations, nil
}

func (r *ProductRepository) ListMedia(ctx context.Context, productID uuid.UUID) ([]models.ProductMedia, error) {
	var media []models.ProductMedia
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC").
		Find(&media).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product media: %w", err)
	}
	return media, nil
}

func (r *ProductRepository) InsertMedia(ctx context.Context, media []models.ProductMedia) error {
	if len(media) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&media).Error; err != nil {
		return fmt.Errorf("failed to insert product media: %w", err)
	}
	return nil
}

func (r *ProductRepository) UpdateMediaOrder(ctx context.Context, id uuid.UUID, sortOrder int, isPrimary bool) error {
	if err := r.db.WithContext(ctx).Model(&models.ProductMedia{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sort_order": sortOrder,
			"is_primary": isPrimary,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to reorder product media: %w", err)
	}
	return nil
}

func (r *ProductRepository) DeleteMedia(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ProductMedia{}).Error; err != nil {
		return fmt.Errorf("failed to delete product media: %w", err)
	}
	return nil
}

func (r *ProductRepository) ListAttributes(ctx context.Context, productID uuid.UUID, lang models.Language) ([]models.ProductAttribute, error) {
	var attributes []models.ProductAttribute
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND (language_code = ? OR language_code IS NULL)", productID, lang).
		Order("sort_order ASC").
		Find(&attributes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product attributes: %w", err)
	}
	return attributes, nil
}

func (r *ProductRepository) InsertAttributes(ctx context.Context, attributes []models.ProductAttribute) error {
	if len(attributes) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&attributes).Error; err != nil {
		return fmt.Errorf("failed to insert product attributes: %w", err)
	}
	return nil
}

func (r *ProductRepository) UpdateAttribute(ctx context.Context, id uuid.UUID, value string, sortOrder int) error {
	if err := r.db.WithContext(ctx).Model(&models.ProductAttribute{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attribute_value": value,
			"sort_order":      sortOrder,
			"updated_at":      time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("failed to update product attribute: %w", err)
	}
	return nil
}

func (r *ProductRepository) DeleteAttributes(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.ProductAttribute{}).Error; err != nil {
		return fmt.Errorf("failed to delete product attributes: %w", err)
	}
	return nil
}
