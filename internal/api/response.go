package api

import (
	"net/http"

	"github.com/bytebasket/backend/internal/middleware"
	"github.com/bytebasket/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	Message    string            `json:"message,omitempty"`
	Pagination *types.Pagination `json:"pagination,omitempty"`
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{Success: true, Data: data, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

// currentUserID reads the authenticated user set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}
