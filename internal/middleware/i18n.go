// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/utils"
)

// I18nMiddleware picks the content language from the lang query parameter,
// then Accept-Language, then defaultLang.
func I18nMiddleware(defaultLang models.Language) gin.HandlerFunc {
	if !defaultLang.Valid() {
		defaultLang = models.LanguagePersian
	}

	supported := []models.Language{defaultLang}
	for _, l := range models.SupportedLanguages {
		if l != defaultLang {
			supported = append(supported, l)
		}
	}
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = language.Make(l.String())
	}
	matcher := language.NewMatcher(tags)

	return func(c *gin.Context) {
		lang := defaultLang

		if q, ok := models.ParseLanguage(c.Query("lang")); ok {
			lang = q
		} else if header := c.GetHeader("Accept-Language"); header != "" {
			if accepted, _, err := language.ParseAcceptLanguage(header); err == nil && len(accepted) > 0 {
				_, index, confidence := matcher.Match(accepted...)
				if confidence != language.No {
					lang = supported[index]
				}
			}
		}

		c.Set(utils.ContextLangKey, lang)
		c.Header("Content-Language", lang.String())
		c.Next()
	}
}
