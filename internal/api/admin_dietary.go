package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/service"
	"github.com/bytebasket/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminDietaryHandler serves restriction catalog management and the mismatch audit log.
type AdminDietaryHandler struct {
	restrictions service.IDietaryRestrictionService
	matcher      service.IDietaryMatchingService
	logger       *slog.Logger
}

func NewAdminDietaryHandler(restrictions service.IDietaryRestrictionService, matcher service.IDietaryMatchingService, logger *slog.Logger) *AdminDietaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminDietaryHandler{restrictions: restrictions, matcher: matcher, logger: logger}
}

// RegisterRoutes mounts the handler on a group already restricted to admins.
func (h *AdminDietaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	restrictions := router.Group("/dietary-restrictions")
	{
		restrictions.POST("", h.CreateRestriction)
		restrictions.GET("", h.ListRestrictions)
		restrictions.PUT("/:id", h.UpdateRestriction)
		restrictions.DELETE("/:id", h.DeleteRestriction)
	}
	router.GET("/dietary-mismatches", h.GetMismatchLogs)
}

// restrictionErrorStatus maps catalog errors to HTTP status codes.
func restrictionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrRestrictionNotFound):
		return http.StatusNotFound, "Dietary restriction not found"
	case errors.Is(err, service.ErrDuplicateRestriction):
		return http.StatusBadRequest, "Dietary restriction with this name already exists"
	case errors.Is(err, service.ErrRestrictionInUse):
		return http.StatusBadRequest, "Cannot delete dietary restriction that is currently in use"
	case errors.Is(err, service.ErrInvalidRestriction):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Failed to process dietary restriction"
}

func (h *AdminDietaryHandler) fail(c *gin.Context, op string, err error) {
	status, message := restrictionErrorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	respondError(c, status, message)
}

func (h *AdminDietaryHandler) CreateRestriction(c *gin.Context) {
	var req types.CreateRestrictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Name and category are required")
		return
	}

	restriction, err := h.restrictions.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, "create dietary restriction", err)
		return
	}

	respondMessage(c, http.StatusCreated, restriction, "Dietary restriction created successfully")
}

func (h *AdminDietaryHandler) ListRestrictions(c *gin.Context) {
	filter, err := parseRestrictionFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	restrictions, pagination, err := h.restrictions.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		h.fail(c, "list dietary restrictions", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: restrictions, Pagination: &pagination})
}

func (h *AdminDietaryHandler) UpdateRestriction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid restriction ID")
		return
	}

	var req types.UpdateRestrictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	restriction, err := h.restrictions.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, "update dietary restriction", err)
		return
	}

	respondMessage(c, http.StatusOK, restriction, "Dietary restriction updated successfully")
}

func (h *AdminDietaryHandler) DeleteRestriction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid restriction ID")
		return
	}

	if err := h.restrictions.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete dietary restriction", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Dietary restriction deleted successfully"})
}

// parseTime accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. A plain
// date used as an end bound covers the whole day.
func parseTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	return nil, errors.New("dates must be RFC 3339 timestamps or YYYY-MM-DD")
}

func parseMismatchFilters(c *gin.Context) (types.MismatchFilters, error) {
	var filters types.MismatchFilters

	if raw := c.Query("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, errors.New("invalid userId")
		}
		filters.UserID = &id
	}
	if raw := c.Query("severity"); raw != "" {
		filters.Severity = models.Severity(raw)
		if !filters.Severity.Valid() {
			return filters, errors.New("severity must be mild or strict")
		}
	}

	var err error
	if filters.StartDate, err = parseTime(c.Query("startDate"), false); err != nil {
		return filters, err
	}
	if filters.EndDate, err = parseTime(c.Query("endDate"), true); err != nil {
		return filters, err
	}
	return filters, nil
}

// GetMismatchLogs returns logged exclusions, newest first.
func (h *AdminDietaryHandler) GetMismatchLogs(c *gin.Context) {
	filters, err := parseMismatchFilters(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respond(c, http.StatusOK, h.matcher.GetMismatchLogs(filters))
}
