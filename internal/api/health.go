package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthCheck returns the health status of the API. Each named check is run
// with a short timeout; any failure turns the response into a 503.
func HealthCheck(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{
			"status":  state,
			"message": "ByteBasket API is running",
			"checks":  results,
		})
	}
}
