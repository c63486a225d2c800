// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/bazaar-backend/internal/config"
	"github.com/javajoker/bazaar-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Database,
	}).Info("Database connection established")
	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
		return
	}
	logrus.Info("Database connection closed")
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations")

	// gen_random_uuid() on Postgres before 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Category{},
		&models.SellerVerification{},
		&models.Product{},
		&models.ProductTranslation{},
		&models.ProductMedia{},
		&models.ProductAttribute{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := db.Exec(catalogViewSQL).Error; err != nil {
		return fmt.Errorf("failed to create catalog view: %w", err)
	}

	createIndexes(db)

	logrus.Info("Database migrations completed")
	return nil
}

// catalogViewSQL flattens the per-language translations and the primary
// image onto each product row.
const catalogViewSQL = `
CREATE OR REPLACE VIEW products_with_translations AS
SELECT
	p.id, p.slug, p.seller_id, p.category_id, p.subcategory_id, p.sku, p.barcode,
	p.price, p.compare_price, p.quantity, p.status, p.is_featured, p.delivery_fee,
	p.metadata, p.name, p.description, p.images, p.created_at, p.updated_at,
	(SELECT m.url FROM product_media m
		WHERE m.product_id = p.id AND m.media_type = 'image'
		ORDER BY m.is_primary DESC, m.sort_order ASC
		LIMIT 1) AS primary_image,
	COALESCE(en.name, '') AS name_en,
	COALESCE(fa.name, '') AS name_fa,
	COALESCE(ps.name, '') AS name_ps,
	COALESCE(en.description, '') AS description_en,
	COALESCE(fa.description, '') AS description_fa,
	COALESCE(ps.description, '') AS description_ps,
	COALESCE(en.short_description, '') AS short_description_en,
	COALESCE(fa.short_description, '') AS short_description_fa,
	COALESCE(ps.short_description, '') AS short_description_ps
FROM products p
LEFT JOIN product_translations en ON en.product_id = p.id AND en.language = 'en'
LEFT JOIN product_translations fa ON fa.product_id = p.id AND fa.language = 'fa'
LEFT JOIN product_translations ps ON ps.product_id = p.id AND ps.language = 'ps'`

func createIndexes(db *gorm.DB) {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_seller_status ON products(seller_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_product_media_order ON product_media(product_id, sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_product_attributes_product_language ON product_attributes(product_id, language_code)",
		"CREATE INDEX IF NOT EXISTS idx_seller_verifications_approved ON seller_verifications(status) WHERE status = 'approved'",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}
}

// SeedCategories creates the top-level categories on an empty database.
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Slug: "electronics", Name: "Electronics", NameFa: "الکترونیک", NamePs: "بریښنایي توکي"},
		{Slug: "clothing", Name: "Clothing", NameFa: "پوشاک", NamePs: "جامې"},
		{Slug: "home", Name: "Home & Kitchen", NameFa: "خانه و آشپزخانه", NamePs: "کور او پخلنځی"},
		{Slug: "handicrafts", Name: "Handicrafts", NameFa: "صنایع دستی", NamePs: "لاسي صنایع"},
		{Slug: "food", Name: "Food & Spices", NameFa: "مواد غذایی و ادویه", NamePs: "خواړه او مصالحې"},
	}

	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	logrus.WithField("count", len(categories)).Info("Seeded categories")
	return nil
}
