package service

import (
	"context"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
)

// IDietaryMatchingService defines the interface for dietary matching operations
type IDietaryMatchingService interface {
	MatchUserDietaryNeeds(ctx context.Context, userID uuid.UUID, items []types.InventoryItem) (*types.BatchResult, error)
	GetMismatchLogs(filters types.MismatchFilters) []types.MismatchLogEntry
}

// IDietaryPreferenceService defines the interface for user preference operations
type IDietaryPreferenceService interface {
	PreferenceFetcher
	ListUserPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserDietaryPreference, error)
	UpdateUserPreferences(ctx context.Context, userID uuid.UUID, inputs []types.PreferenceInput) ([]models.UserDietaryPreference, error)
}

// IDietaryRestrictionService defines the interface for restriction catalog operations
type IDietaryRestrictionService interface {
	ListAvailable(ctx context.Context, filter types.RestrictionFilter) ([]models.DietaryRestriction, error)
	List(ctx context.Context, filter types.RestrictionFilter, page, limit int) ([]models.DietaryRestriction, types.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.DietaryRestriction, error)
	Create(ctx context.Context, req *types.CreateRestrictionRequest) (*models.DietaryRestriction, error)
	Update(ctx context.Context, id uuid.UUID, req *types.UpdateRestrictionRequest) (*models.DietaryRestriction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SeedDefaults(ctx context.Context) (int, error)
}

// ITokenService defines the interface for access token operations
type ITokenService interface {
	GenerateToken(userID uuid.UUID, email, role string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}
