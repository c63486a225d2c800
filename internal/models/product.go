// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	BaseModel
	Slug          string              `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	SellerID      uuid.UUID           `json:"seller_id" gorm:"type:uuid;not null;index"`
	CategoryID    *uuid.UUID          `json:"category_id" gorm:"type:uuid;index"`
	SubcategoryID *uuid.UUID          `json:"subcategory_id" gorm:"type:uuid;index"`
	SKU           string              `json:"sku" gorm:"size:64;index"`
	Barcode       *string             `json:"barcode" gorm:"size:64;index"`
	Price         decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	ComparePrice  decimal.NullDecimal `json:"compare_price" gorm:"type:decimal(12,2)"`
	Quantity      int                 `json:"quantity" gorm:"default:0"`
	Status        ProductStatus       `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	IsFeatured    bool                `json:"is_featured" gorm:"default:false;index"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee" gorm:"type:decimal(12,2);default:0"`
	Metadata      ProductMetadata     `json:"metadata" gorm:"type:jsonb"`

	// Legacy flat columns, still written for clients that predate the
	// translation and media tables.
	Name        string         `json:"name" gorm:"size:255"`
	Description string         `json:"description" gorm:"type:text"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Subcategory *Category `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID"`
}

type ProductTranslation struct {
	BaseModel
	ProductID        uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_product_translations_product_language"`
	Language         Language       `json:"language" gorm:"type:varchar(2);not null;uniqueIndex:idx_product_translations_product_language"`
	Name             string         `json:"name" gorm:"size:255"`
	Description      string         `json:"description" gorm:"type:text"`
	ShortDescription string         `json:"short_description" gorm:"type:text"`
	MetaTitle        string         `json:"meta_title" gorm:"size:255"`
	MetaDescription  string         `json:"meta_description" gorm:"type:text"`
	Specifications   datatypes.JSON `json:"specifications" gorm:"type:jsonb"`
}

type ProductMedia struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	MediaType MediaType `json:"media_type" gorm:"type:varchar(10);not null"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
}

func (ProductMedia) TableName() string {
	return "product_media"
}

// ProductAttribute is a key/value pair. A nil LanguageCode marks a universal
// attribute shared by every translation.
type ProductAttribute struct {
	BaseModel
	ProductID      uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	AttributeKey   string    `json:"attribute_key" gorm:"size:100;not null;index"`
	AttributeValue string    `json:"attribute_value" gorm:"type:text"`
	LanguageCode   *Language `json:"language_code" gorm:"type:varchar(2)"`
	SortOrder      int       `json:"sort_order" gorm:"default:0"`
}

func (a ProductAttribute) Universal() bool {
	return a.LanguageCode == nil
}

type Category struct {
	BaseModel
	Slug     string     `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Name     string     `json:"name" gorm:"size:255;not null"`
	NameFa   string     `json:"name_fa" gorm:"size:255"`
	NamePs   string     `json:"name_ps" gorm:"size:255"`
	ParentID *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
}

func (c *Category) LocalizedName(lang Language) string {
	if c == nil {
		return ""
	}
	for _, l := range FallbackChain(lang) {
		if name := c.nameIn(l); name != "" {
			return name
		}
	}
	return c.Name
}

// Names returns every non-empty name of the category.
func (c *Category) Names() []string {
	if c == nil {
		return nil
	}
	var names []string
	for _, n := range []string{c.Name, c.NameFa, c.NamePs} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

func (c *Category) nameIn(lang Language) string {
	switch lang {
	case LanguagePersian:
		return c.NameFa
	case LanguagePashto:
		return c.NamePs
	default:
		return c.Name
	}
}

type SellerVerification struct {
	BaseModel
	SellerID     uuid.UUID          `json:"seller_id" gorm:"type:uuid;not null;uniqueIndex"`
	BusinessName string             `json:"business_name" gorm:"size:255;not null"`
	Status       VerificationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
}

// CatalogProduct is a row of the products_with_translations view: the core
// product with every language's translated fields flattened onto it.
type CatalogProduct struct {
	ID                 uuid.UUID           `json:"id"`
	Slug               string              `json:"slug"`
	SellerID           uuid.UUID           `json:"seller_id"`
	CategoryID         *uuid.UUID          `json:"category_id"`
	SubcategoryID      *uuid.UUID          `json:"subcategory_id"`
	SKU                string              `json:"sku"`
	Barcode            *string             `json:"barcode"`
	Price              decimal.Decimal     `json:"price"`
	ComparePrice       decimal.NullDecimal `json:"compare_price"`
	Quantity           int                 `json:"quantity"`
	Status             ProductStatus       `json:"status"`
	IsFeatured         bool                `json:"is_featured"`
	DeliveryFee        decimal.Decimal     `json:"delivery_fee"`
	Metadata           ProductMetadata     `json:"metadata"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Images             pq.StringArray      `json:"images" gorm:"type:text[]"`
	PrimaryImage       *string             `json:"primary_image"`
	NameEn             string              `json:"name_en"`
	NameFa             string              `json:"name_fa"`
	NamePs             string              `json:"name_ps"`
	DescriptionEn      string              `json:"description_en"`
	DescriptionFa      string              `json:"description_fa"`
	DescriptionPs      string              `json:"description_ps"`
	ShortDescriptionEn string              `json:"short_description_en"`
	ShortDescriptionFa string              `json:"short_description_fa"`
	ShortDescriptionPs string              `json:"short_description_ps"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`

	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Subcategory *Category `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID"`

	SellerBusinessName string `json:"seller_business_name,omitempty" gorm:"-"`
}

func (CatalogProduct) TableName() string {
	return "products_with_translations"
}

// LocalizedName resolves the name along FallbackChain, ending at the legacy
// flat column.
func (p *CatalogProduct) LocalizedName(lang Language) string {
	return p.localized(lang, p.NameEn, p.NameFa, p.NamePs, p.Name)
}

func (p *CatalogProduct) LocalizedDescription(lang Language) string {
	return p.localized(lang, p.DescriptionEn, p.DescriptionFa, p.DescriptionPs, p.Description)
}

func (p *CatalogProduct) LocalizedShortDescription(lang Language) string {
	return p.localized(lang, p.ShortDescriptionEn, p.ShortDescriptionFa, p.ShortDescriptionPs, "")
}

// Names returns every non-empty name the product is known by.
func (p *CatalogProduct) Names() []string {
	return nonEmpty(p.NameEn, p.NameFa, p.NamePs, p.Name)
}

func (p *CatalogProduct) Descriptions() []string {
	return nonEmpty(p.DescriptionEn, p.DescriptionFa, p.DescriptionPs, p.Description)
}

func (p *CatalogProduct) localized(lang Language, en, fa, ps, legacy string) string {
	values := map[Language]string{LanguageEnglish: en, LanguagePersian: fa, LanguagePashto: ps}
	for _, l := range FallbackChain(lang) {
		if v := values[l]; v != "" {
			return v
		}
	}
	return legacy
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
