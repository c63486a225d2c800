// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/bazaar-backend/internal/i18n"
	"github.com/javajoker/bazaar-backend/internal/repository"
	"github.com/javajoker/bazaar-backend/internal/services"
	"github.com/javajoker/bazaar-backend/internal/utils"
)

// respondError maps service errors onto responses. Anything unrecognised is
// logged and reported as an internal error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, repository.ErrCategoryNotFound):
		utils.BadRequestResponse(c, i18n.KeyCategoryNotFound, nil)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrInvalidLanguage):
		utils.BadRequestResponse(c, i18n.KeyInvalidLanguage, nil)
	case errors.Is(err, services.ErrInvalidStatus):
		utils.BadRequestResponse(c, i18n.KeyInvalidStatus, nil)
	case errors.Is(err, services.ErrFileTooLarge):
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			i18n.T(utils.GetLangFromContext(c).String(), i18n.KeyMediaTooLarge), nil)
	case errors.Is(err, services.ErrFileTypeForbidden):
		utils.BadRequestResponse(c, i18n.KeyMediaTypeRejected, nil)
	default:
		c.Error(err)
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.InternalErrorResponse(c)
	}
}
