// internal/utils/validator.go
package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/javajoker/bazaar-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterValidation("content_language", validateContentLanguage)
	validate.RegisterValidation("seller_status", validateSellerStatus)
	validate.RegisterValidation("delivery_type", validateDeliveryType)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// decimalValue lets numeric tags such as gte apply to money fields.
func decimalValue(field reflect.Value) interface{} {
	switch v := field.Interface().(type) {
	case decimal.Decimal:
		f, _ := v.Float64()
		return f
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		f, _ := v.Decimal.Float64()
		return f
	}
	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func validateContentLanguage(fl validator.FieldLevel) bool {
	return models.Language(fl.Field().String()).Valid()
}

// validateSellerStatus admits the statuses a seller may pick; the others
// are set by moderation.
func validateSellerStatus(fl validator.FieldLevel) bool {
	return models.ProductStatus(fl.Field().String()).SellerSettable()
}

func validateDeliveryType(fl validator.FieldLevel) bool {
	return models.DeliveryType(fl.Field().String()).Valid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gte":
		return e.Field() + " must be at least " + e.Param()
	case "lte":
		return e.Field() + " must be at most " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " long"
	case "content_language":
		return "Language must be one of en, fa, ps"
	case "seller_status":
		return "Status must be draft or pending"
	case "delivery_type":
		return "Delivery type must be one of standard, express, free"
	default:
		return e.Field() + " is invalid"
	}
}
