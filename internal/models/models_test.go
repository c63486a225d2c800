package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackChain(t *testing.T) {
	assert.Equal(t, []Language{LanguagePashto, LanguagePersian, LanguageEnglish}, FallbackChain(LanguagePashto))
	assert.Equal(t, []Language{LanguagePersian, LanguageEnglish}, FallbackChain(LanguagePersian))
	assert.Equal(t, []Language{LanguageEnglish, LanguagePersian}, FallbackChain(LanguageEnglish))
}

func TestLanguageDirection(t *testing.T) {
	assert.Equal(t, "rtl", LanguagePersian.Direction())
	assert.Equal(t, "rtl", LanguagePashto.Direction())
	assert.Equal(t, "ltr", LanguageEnglish.Direction())

	_, ok := ParseLanguage("de")
	assert.False(t, ok)
}

func TestMetadataUpgradesKeywordString(t *testing.T) {
	var m ProductMetadata
	require.NoError(t, m.Scan([]byte(`{"brand":"Apple","keywords":"phone, ios ,,smart"}`)))

	assert.Equal(t, MetadataVersion, m.Version)
	assert.Equal(t, "Apple", m.Brand)
	assert.Equal(t, []string{"phone", "ios", "smart"}, m.Keywords)
}

func TestMetadataRoundTripStampsVersion(t *testing.T) {
	in := ProductMetadata{
		Keywords:     []string{"saffron"},
		StockPerSize: map[string]int{"M": 3},
		DeliveryOptions: []DeliveryOption{{
			Type:      DeliveryTypeExpress,
			Price:     decimal.RequireFromString("12.5"),
			IsDefault: true,
		}},
	}

	value, err := in.Value()
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(value.([]byte), &raw))
	assert.Equal(t, float64(MetadataVersion), raw["version"])

	var out ProductMetadata
	require.NoError(t, out.Scan(value))
	assert.Equal(t, in.Keywords, out.Keywords)
	assert.Equal(t, 3, out.StockPerSize["M"])
	require.Len(t, out.DeliveryOptions, 1)
	assert.True(t, out.DeliveryOptions[0].Price.Equal(decimal.RequireFromString("12.5")))
}

func TestMetadataScanRejectsGarbage(t *testing.T) {
	var m ProductMetadata
	assert.Error(t, m.Scan(42))
	assert.Error(t, m.Scan([]byte(`{"keywords": 7}`)))
	require.NoError(t, m.Scan(nil))
	assert.Equal(t, ProductMetadata{}, m)
}

func TestLocalizedTextFallsBackToEnglish(t *testing.T) {
	text := LocalizedText{En: "Free Delivery", Fa: "ارسال رایگان"}

	assert.Equal(t, "ارسال رایگان", text.In(LanguagePersian))
	assert.Equal(t, "Free Delivery", text.In(LanguagePashto))
}

func TestCatalogProductLocalizedName(t *testing.T) {
	p := CatalogProduct{NameEn: "Rug", NameFa: "قالی", Name: "legacy"}

	assert.Equal(t, "قالی", p.LocalizedName(LanguagePashto))
	assert.Equal(t, "Rug", p.LocalizedName(LanguageEnglish))
	assert.Equal(t, "legacy", (&CatalogProduct{Name: "legacy"}).LocalizedName(LanguageEnglish))
	assert.Equal(t, []string{"Rug", "قالی", "legacy"}, p.Names())

	var nilCategory *Category
	assert.Empty(t, nilCategory.LocalizedName(LanguagePersian))
}

func TestProductStatusSellerSettable(t *testing.T) {
	assert.True(t, ProductStatusDraft.SellerSettable())
	assert.True(t, ProductStatusPending.SellerSettable())
	assert.False(t, ProductStatusActive.SellerSettable())
	assert.False(t, ProductStatusRejected.SellerSettable())
	assert.False(t, ProductStatus("").SellerSettable())
}
