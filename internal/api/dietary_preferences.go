package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/service"
	"github.com/bytebasket/backend/internal/types"
	"github.com/gin-gonic/gin"
)

// DietaryHandler serves the user-facing dietary preference endpoints.
type DietaryHandler struct {
	preferences  service.IDietaryPreferenceService
	restrictions service.IDietaryRestrictionService
	matcher      service.IDietaryMatchingService
	logger       *slog.Logger
}

func NewDietaryHandler(
	preferences service.IDietaryPreferenceService,
	restrictions service.IDietaryRestrictionService,
	matcher service.IDietaryMatchingService,
	logger *slog.Logger,
) *DietaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DietaryHandler{
		preferences:  preferences,
		restrictions: restrictions,
		matcher:      matcher,
		logger:       logger,
	}
}

// RegisterRoutes mounts the handler on an authenticated group. matchLimit
// guards the test-matching endpoint.
func (h *DietaryHandler) RegisterRoutes(router *gin.RouterGroup, matchLimit gin.HandlerFunc) {
	prefs := router.Group("/dietary-preferences")
	{
		prefs.GET("", h.GetPreferences)
		prefs.PUT("", h.UpdatePreferences)
		prefs.GET("/restrictions", h.GetRestrictions)
		if matchLimit != nil {
			prefs.POST("/test-matching", matchLimit, h.TestMatching)
		} else {
			prefs.POST("/test-matching", h.TestMatching)
		}
	}
}

func (h *DietaryHandler) GetPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	prefs, err := h.preferences.ListUserPreferences(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to get dietary preferences", slog.String("user_id", userID.String()), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch dietary preferences")
		return
	}

	respond(c, http.StatusOK, prefs)
}

func (h *DietaryHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Preferences == nil {
		respondError(c, http.StatusBadRequest, "Preferences must be an array")
		return
	}

	prefs, err := h.preferences.UpdateUserPreferences(c.Request.Context(), userID, req.Preferences)
	if err != nil {
		h.logger.Error("failed to update dietary preferences", slog.String("user_id", userID.String()), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "Failed to update dietary preferences")
		return
	}

	respondMessage(c, http.StatusOK, prefs, "Dietary preferences updated successfully")
}

// parseRestrictionFilter reads the optional category and isAllergen query parameters.
func parseRestrictionFilter(c *gin.Context) (types.RestrictionFilter, error) {
	var filter types.RestrictionFilter
	if category := c.Query("category"); category != "" {
		filter.Category = models.RestrictionCategory(category)
		if !filter.Category.Valid() {
			return filter, errors.New("invalid category")
		}
	}
	if raw := c.Query("isAllergen"); raw != "" {
		allergen, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("isAllergen must be true or false")
		}
		filter.IsAllergen = &allergen
	}
	return filter, nil
}

func (h *DietaryHandler) GetRestrictions(c *gin.Context) {
	filter, err := parseRestrictionFilter(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	restrictions, err := h.restrictions.ListAvailable(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list dietary restrictions", slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch dietary restrictions")
		return
	}

	respond(c, http.StatusOK, restrictions)
}

// TestMatching runs the matching engine for the current user against the
// inventory items in the request body.
func (h *DietaryHandler) TestMatching(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req types.TestMatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InventoryItems == nil {
		respondError(c, http.StatusBadRequest, "Inventory items array is required")
		return
	}

	result, err := h.matcher.MatchUserDietaryNeeds(c.Request.Context(), userID, req.InventoryItems)
	if err != nil {
		if errors.Is(err, service.ErrInvalidItems) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("dietary matching failed", slog.String("user_id", userID.String()), slog.Any("error", err))
		respondError(c, http.StatusInternalServerError, "Failed to test dietary matching")
		return
	}

	respond(c, http.StatusOK, result)
}
