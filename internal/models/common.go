// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the id client-side so callers know it before the
// insert returns.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Enums
type Language string

const (
	LanguageEnglish Language = "en"
	LanguagePersian Language = "fa"
	LanguagePashto  Language = "ps"
)

// SupportedLanguages is the storefront language set, in display order.
var SupportedLanguages = []Language{LanguageEnglish, LanguagePersian, LanguagePashto}

func ParseLanguage(s string) (Language, bool) {
	lang := Language(s)
	return lang, lang.Valid()
}

func (l Language) Valid() bool {
	switch l {
	case LanguageEnglish, LanguagePersian, LanguagePashto:
		return true
	}
	return false
}

func (l Language) String() string {
	return string(l)
}

// IsRTL reports whether the language is written right-to-left.
func (l Language) IsRTL() bool {
	return l == LanguagePersian || l == LanguagePashto
}

func (l Language) Direction() string {
	if l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// FallbackChain returns the order in which translated content is tried for
// lang: the language itself, then Persian, then English. Pashto therefore
// falls back to Persian before English.
func FallbackChain(lang Language) []Language {
	chain := []Language{lang}
	for _, l := range []Language{LanguagePersian, LanguageEnglish} {
		if l != lang {
			chain = append(chain, l)
		}
	}
	return chain
}

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusPending  ProductStatus = "pending"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusPending, ProductStatusActive, ProductStatusRejected:
		return true
	}
	return false
}

// SellerSettable reports whether a seller may pick s. Active and rejected
// are moderation outcomes.
func (s ProductStatus) SellerSettable() bool {
	return s == ProductStatusDraft || s == ProductStatusPending
}

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

type DeliveryType string

const (
	DeliveryTypeStandard DeliveryType = "standard"
	DeliveryTypeExpress  DeliveryType = "express"
	DeliveryTypeFree     DeliveryType = "free"
)

func (t DeliveryType) Valid() bool {
	switch t {
	case DeliveryTypeStandard, DeliveryTypeExpress, DeliveryTypeFree:
		return true
	}
	return false
}
