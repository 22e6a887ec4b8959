package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytebasket/backend/internal/mocks"
	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthRouter(validator TokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(validator)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(ContextUserID).(uuid.UUID).String(),
			"role":    c.GetString(ContextRole),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	tokens := new(mocks.MockTokenService)
	tokens.On("ValidateToken", "good").Return(&types.TokenClaims{UserID: userID, Role: models.RoleRecipient}, nil)
	tokens.On("ValidateToken", "bad").Return(nil, errors.New("invalid token"))

	router := newAuthRouter(tokens)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
	tokens.AssertExpectations(t)
}

func TestRequireRole(t *testing.T) {
	tokens := new(mocks.MockTokenService)
	tokens.On("ValidateToken", "admin").Return(&types.TokenClaims{UserID: uuid.New(), Role: models.RoleAdmin}, nil)
	tokens.On("ValidateToken", "user").Return(&types.TokenClaims{UserID: uuid.New(), Role: models.RoleRecipient}, nil)

	router := newAuthRouter(tokens, RequireRole(models.RoleAdmin))

	for token, status := range map[string]int{"admin": http.StatusOK, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, token)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.bytebasket.org"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.bytebasket.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.bytebasket.org", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(discardLogger()), RequestLogger(discardLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, w.Body.String())
}

func TestRateLimiterWithoutRedisPassesThrough(t *testing.T) {
	limiter := NewMatchingRateLimiter(nil, 1)
	assert.False(t, limiter.Enabled())

	r := gin.New()
	r.POST("/match", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/match", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
