package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiterEnforcesLimit(t *testing.T) {
	client := setupRedis(t)
	limiter := NewMatchingRateLimiter(client, 2)
	require.True(t, limiter.Enabled())

	userID := uuid.New()
	r := gin.New()
	r.POST("/match", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Next()
	}, limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodPost, "/match", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))

	remaining, _, err := limiter.GetRemainingRequests(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Zero(t, remaining)

	remaining, _, err = limiter.GetRemainingRequests(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRateLimiterRequiresUser(t *testing.T) {
	client := setupRedis(t)
	limiter := NewMatchingRateLimiter(client, 5)

	r := gin.New()
	r.POST("/match", limiter.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/match", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
