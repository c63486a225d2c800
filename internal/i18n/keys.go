// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthForbidden    = "auth.forbidden"

	// Products
	KeyProductCreated       = "product.created"
	KeyProductUpdated       = "product.updated"
	KeyProductSavedWarnings = "product.saved_with_warnings"
	KeyProductNotFound      = "product.not_found"
	KeyProductInvalidID     = "product.invalid_id"
	KeyCategoryNotFound     = "category.not_found"
	KeyInvalidLanguage      = "product.invalid_language"
	KeyInvalidStatus        = "product.invalid_status"

	// Media
	KeyMediaUploaded     = "media.uploaded"
	KeyMediaMissingFile  = "media.missing_file"
	KeyMediaTooLarge     = "media.too_large"
	KeyMediaTypeRejected = "media.type_rejected"

	// Validation
	KeyValidationInvalid = "validation.invalid"
)
