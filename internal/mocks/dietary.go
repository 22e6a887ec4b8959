package mocks

import (
	"context"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDietaryMatchingService is a mock implementation of the IDietaryMatchingService interface
type MockDietaryMatchingService struct {
	mock.Mock
}

func (m *MockDietaryMatchingService) MatchUserDietaryNeeds(ctx context.Context, userID uuid.UUID, items []types.InventoryItem) (*types.BatchResult, error) {
	args := m.Called(ctx, userID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.BatchResult), args.Error(1)
}

func (m *MockDietaryMatchingService) GetMismatchLogs(filters types.MismatchFilters) []types.MismatchLogEntry {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]types.MismatchLogEntry)
}

// MockDietaryPreferenceService is a mock implementation of the IDietaryPreferenceService interface
type MockDietaryPreferenceService struct {
	mock.Mock
}

func (m *MockDietaryPreferenceService) GetUserDietaryPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserDietaryPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserDietaryPreference), args.Error(1)
}

func (m *MockDietaryPreferenceService) ListUserPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserDietaryPreference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserDietaryPreference), args.Error(1)
}

func (m *MockDietaryPreferenceService) UpdateUserPreferences(ctx context.Context, userID uuid.UUID, inputs []types.PreferenceInput) ([]models.UserDietaryPreference, error) {
	args := m.Called(ctx, userID, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserDietaryPreference), args.Error(1)
}

// MockDietaryRestrictionService is a mock implementation of the IDietaryRestrictionService interface
type MockDietaryRestrictionService struct {
	mock.Mock
}

func (m *MockDietaryRestrictionService) ListAvailable(ctx context.Context, filter types.RestrictionFilter) ([]models.DietaryRestriction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionService) List(ctx context.Context, filter types.RestrictionFilter, page, limit int) ([]models.DietaryRestriction, types.Pagination, error) {
	args := m.Called(ctx, filter, page, limit)
	var restrictions []models.DietaryRestriction
	if args.Get(0) != nil {
		restrictions = args.Get(0).([]models.DietaryRestriction)
	}
	return restrictions, args.Get(1).(types.Pagination), args.Error(2)
}

func (m *MockDietaryRestrictionService) Get(ctx context.Context, id uuid.UUID) (*models.DietaryRestriction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionService) Create(ctx context.Context, req *types.CreateRestrictionRequest) (*models.DietaryRestriction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionService) Update(ctx context.Context, id uuid.UUID, req *types.UpdateRestrictionRequest) (*models.DietaryRestriction, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DietaryRestriction), args.Error(1)
}

func (m *MockDietaryRestrictionService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDietaryRestrictionService) SeedDefaults(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
