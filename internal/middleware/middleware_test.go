package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/bazaar-backend/internal/config"
	"github.com/javajoker/bazaar-backend/internal/models"
	"github.com/javajoker/bazaar-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(handlers []gin.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *gin.Context) {
	var captured *gin.Context
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		captured = c.Copy()
		c.Status(http.StatusOK)
	})
	r.GET("/test", handlers...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, captured
}

func TestI18nMiddleware(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		header string
		want   models.Language
	}{
		{"default", "/test", "", models.LanguagePersian},
		{"query parameter", "/test?lang=ps", "en-US", models.LanguagePashto},
		{"invalid query falls through to header", "/test?lang=de", "en-GB,en;q=0.9", models.LanguageEnglish},
		{"regional header", "/test", "fa-IR", models.LanguagePersian},
		{"weighted header", "/test", "de;q=1.0, ps;q=0.8", models.LanguagePashto},
		{"unsupported header", "/test", "ja", models.LanguagePersian},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Accept-Language", tc.header)
			}

			w, c := serve([]gin.HandlerFunc{I18nMiddleware(models.LanguagePersian)}, req)

			require.NotNil(t, c)
			assert.Equal(t, tc.want, utils.GetLangFromContext(c))
			assert.Equal(t, tc.want.String(), w.Header().Get("Content-Language"))
		})
	}
}

func TestAuthRequired(t *testing.T) {
	userID := uuid.New()
	token, err := utils.GenerateJWT(userID, "seller@example.com", "seller", "test", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w, _ := serve([]gin.HandlerFunc{AuthRequired()}, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w, _ = serve([]gin.HandlerFunc{AuthRequired()}, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, c := serve([]gin.HandlerFunc{AuthRequired()}, req)
	assert.Equal(t, http.StatusOK, w.Code)
	got, ok := utils.GetUserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	token, err := utils.GenerateJWT(uuid.New(), "", "seller", "test", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, _ := serve([]gin.HandlerFunc{AuthRequired()}, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	w, c := serve([]gin.HandlerFunc{OptionalAuth()}, req)

	assert.Equal(t, http.StatusOK, w.Code)
	_, ok := utils.GetUserIDFromContext(c)
	assert.False(t, ok)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w, _ := serve([]gin.HandlerFunc{RequestLogger()}, req)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w, _ = serve([]gin.HandlerFunc{RequestLogger()}, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func newTestLimiter(tier config.RateTier) (*RateLimiter, *time.Time) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(context.Background(), tier, 0)
	limiter.now = func() time.Time { return now }
	return limiter, &now
}

func limitedRequest(limiter *RateLimiter, userID *uuid.UUID) *httptest.ResponseRecorder {
	handlers := []gin.HandlerFunc{}
	if userID != nil {
		id := *userID
		handlers = append(handlers, func(c *gin.Context) { c.Set(utils.ContextUserIDKey, id) })
	}
	handlers = append(handlers, limiter.Middleware())
	w, _ := serve(handlers, httptest.NewRequest(http.MethodGet, "/test", nil))
	return w
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter, _ := newTestLimiter(config.RateTier{PerMinute: 1, Burst: 2})

	codes := make([]int, 3)
	var last *httptest.ResponseRecorder
	for i := range codes {
		last = limitedRequest(limiter, nil)
		codes[i] = last.Code
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	retryAfter, err := strconv.Atoi(last.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 59)
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	limiter, now := newTestLimiter(config.RateTier{PerMinute: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, limitedRequest(limiter, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(limiter, nil).Code)

	*now = now.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, limitedRequest(limiter, nil).Code)
}

func TestRateLimiterKeysSignedInSellersByUser(t *testing.T) {
	limiter, _ := newTestLimiter(config.RateTier{PerMinute: 1, Burst: 1})
	first, second := uuid.New(), uuid.New()

	assert.Equal(t, http.StatusOK, limitedRequest(limiter, &first).Code)
	assert.Equal(t, http.StatusOK, limitedRequest(limiter, &second).Code)
	assert.Equal(t, http.StatusOK, limitedRequest(limiter, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(limiter, &first).Code)
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(limiter, nil).Code)
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	limiter, now := newTestLimiter(config.RateTier{PerMinute: 60, Burst: 5})
	limiter.idle = 3 * time.Minute
	userID := uuid.New()

	limitedRequest(limiter, nil)
	*now = now.Add(2 * time.Minute)
	limitedRequest(limiter, &userID)

	*now = now.Add(2 * time.Minute)
	limiter.dropIdle()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.buckets, 1)
	assert.Contains(t, limiter.buckets, "user:"+userID.String())
}

func TestNewRateLimitsBuildsEveryTier(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	limits := NewRateLimits(ctx, config.RateLimitConfig{
		General: config.RateTier{PerMinute: 600, Burst: 20},
		Write:   config.RateTier{PerMinute: 30, Burst: 10},
		Upload:  config.RateTier{PerMinute: 6, Burst: 3},
		IdleTTL: time.Minute,
	})

	assert.Equal(t, rate.Limit(10), limits.General.limit)
	assert.Equal(t, 10, limits.Write.burst)
	assert.Equal(t, rate.Limit(0.1), limits.Upload.limit)
}
