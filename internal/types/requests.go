package types

import (
	"github.com/bytebasket/backend/internal/models"
	"github.com/google/uuid"
)

// PreferenceInput is one entry of a full preference-set replacement.
type PreferenceInput struct {
	RestrictionID uuid.UUID       `json:"restrictionId"`
	Severity      models.Severity `json:"severity"`
	Notes         string          `json:"notes"`
}

// UpdatePreferencesRequest replaces a user's whole preference set.
type UpdatePreferencesRequest struct {
	Preferences []PreferenceInput `json:"preferences"`
}

// TestMatchingRequest runs the matching engine against caller-supplied items.
type TestMatchingRequest struct {
	InventoryItems []InventoryItem `json:"inventoryItems"`
}

// CreateRestrictionRequest is the admin payload for a new catalog entry.
type CreateRestrictionRequest struct {
	Name           string                     `json:"name" binding:"required,max=100"`
	Category       models.RestrictionCategory `json:"category" binding:"required"`
	Description    string                     `json:"description" binding:"max=500"`
	Icon           string                     `json:"icon" binding:"max=255"`
	IsAllergen     bool                       `json:"isAllergen"`
	SeverityLevels []models.Severity          `json:"severityLevels"`
}

// UpdateRestrictionRequest is a partial update; nil fields are left alone.
type UpdateRestrictionRequest struct {
	Name           *string                     `json:"name"`
	Category       *models.RestrictionCategory `json:"category"`
	Description    *string                     `json:"description"`
	Icon           *string                     `json:"icon"`
	IsAllergen     *bool                       `json:"isAllergen"`
	SeverityLevels []models.Severity           `json:"severityLevels"`
	IsActive       *bool                       `json:"isActive"`
}

// RestrictionFilter narrows catalog listings.
type RestrictionFilter struct {
	Category   models.RestrictionCategory
	IsAllergen *bool
}

// Pagination is returned alongside paged admin listings.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}
