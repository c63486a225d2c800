// internal/services/display.go
package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/javajoker/bazaar-backend/internal/models"
)

// NewProductWindow is how long after creation a product is flagged new.
const NewProductWindow = 7 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// DisplayProduct is a catalog row resolved for one language.
type DisplayProduct struct {
	ID               uuid.UUID            `json:"id"`
	Slug             string               `json:"slug"`
	SKU              string               `json:"sku"`
	Language         models.Language      `json:"language"`
	Direction        string               `json:"direction"`
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	ShortDescription string               `json:"short_description,omitempty"`
	Image            string               `json:"image,omitempty"`
	CurrentPrice     decimal.Decimal      `json:"current_price"`
	OriginalPrice    *decimal.Decimal     `json:"original_price,omitempty"`
	DiscountPercent  int64                `json:"discount_percent"`
	DeliveryFee      decimal.Decimal      `json:"delivery_fee"`
	Quantity         int                  `json:"quantity"`
	InStock          bool                 `json:"in_stock"`
	Status           models.ProductStatus `json:"status"`
	IsNew            bool                 `json:"is_new"`
	IsHot            bool                 `json:"is_hot"`
	SellerID         uuid.UUID            `json:"seller_id"`
	SellerName       string               `json:"seller_name,omitempty"`
	CategoryName     string               `json:"category_name,omitempty"`
	SubcategoryName  string               `json:"subcategory_name,omitempty"`
	Brand            string               `json:"brand,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// FormatProduct resolves p for display in lang as of now.
func FormatProduct(p *models.CatalogProduct, lang models.Language, now time.Time) DisplayProduct {
	return formatProduct(p, lang, now, NewProductWindow)
}

// FormatProducts formats a catalog page. A non-positive newWindow uses
// NewProductWindow.
func FormatProducts(rows []models.CatalogProduct, lang models.Language, now time.Time, newWindow time.Duration) []DisplayProduct {
	if newWindow <= 0 {
		newWindow = NewProductWindow
	}

	out := make([]DisplayProduct, len(rows))
	for i := range rows {
		out[i] = formatProduct(&rows[i], lang, now, newWindow)
	}
	return out
}

func formatProduct(p *models.CatalogProduct, lang models.Language, now time.Time, newWindow time.Duration) DisplayProduct {
	current, original, discount := resolvePrices(p.Price, p.ComparePrice)

	d := DisplayProduct{
		ID:               p.ID,
		Slug:             p.Slug,
		SKU:              p.SKU,
		Language:         lang,
		Direction:        lang.Direction(),
		Name:             p.LocalizedName(lang),
		Description:      p.LocalizedDescription(lang),
		ShortDescription: p.LocalizedShortDescription(lang),
		CurrentPrice:     current,
		OriginalPrice:    original,
		DiscountPercent:  discount,
		DeliveryFee:      p.DeliveryFee,
		Quantity:         p.Quantity,
		InStock:          p.Quantity > 0,
		Status:           p.Status,
		IsNew:            !p.CreatedAt.IsZero() && now.Sub(p.CreatedAt) < newWindow,
		IsHot:            p.IsFeatured,
		SellerID:         p.SellerID,
		SellerName:       p.SellerBusinessName,
		CategoryName:     p.Category.LocalizedName(lang),
		SubcategoryName:  p.Subcategory.LocalizedName(lang),
		Brand:            p.Metadata.Brand,
		CreatedAt:        p.CreatedAt,
	}

	switch {
	case p.PrimaryImage != nil && *p.PrimaryImage != "":
		d.Image = *p.PrimaryImage
	case len(p.Images) > 0:
		d.Image = p.Images[0]
	}

	return d
}

// resolvePrices treats the larger of price and compare price as the
// original price, whichever column holds it.
func resolvePrices(price decimal.Decimal, compare decimal.NullDecimal) (decimal.Decimal, *decimal.Decimal, int64) {
	if !compare.Valid || compare.Decimal.Equal(price) {
		return price, nil, 0
	}

	current, original := price, compare.Decimal
	if current.GreaterThan(original) {
		current, original = original, current
	}
	if !original.IsPositive() {
		return price, nil, 0
	}

	discount := original.Sub(current).Div(original).Mul(hundred).Round(0).IntPart()
	return current, &original, discount
}
