// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/bazaar-backend/internal/i18n"
	"github.com/javajoker/bazaar-backend/internal/models"
)

// Context keys set by the middleware.
const (
	ContextLangKey   = "lang"
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "user_role"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// MessageResponse sends data with a translated message.
func MessageResponse(c *gin.Context, statusCode int, key string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: i18n.T(GetLangFromContext(c).String(), key),
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, key string, details interface{}) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", translate(c, key), details)
}

func UnauthorizedResponse(c *gin.Context, key string) {
	if key == "" {
		key = i18n.KeyAuthRequired
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", translate(c, key), nil)
}

func ForbiddenResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", translate(c, i18n.KeyAuthForbidden), nil)
}

func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", translate(c, key), nil)
}

func TooManyRequestsResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", translate(c, i18n.KeyRateLimited), nil)
}

func InternalErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", translate(c, i18n.KeyInternalError), nil)
}

func ValidationErrorResponse(c *gin.Context, errors []ValidationError) {
	message := i18n.T(GetLangFromContext(c).String(), i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, errors)
}

func translate(c *gin.Context, key string) string {
	lang := GetLangFromContext(c).String()
	if key == "" {
		return i18n.T(lang, i18n.KeyValidationInvalid, "request")
	}
	return i18n.T(lang, key)
}

// GetLangFromContext returns the negotiated content language, Persian when
// the middleware did not run.
func GetLangFromContext(c *gin.Context) models.Language {
	if lang, exists := c.Get(ContextLangKey); exists {
		if l, ok := lang.(models.Language); ok {
			return l
		}
	}
	return models.LanguagePersian
}

func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	if userID, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := userID.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
