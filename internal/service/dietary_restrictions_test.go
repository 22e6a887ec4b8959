package service

import (
	"context"
	"testing"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/testhelpers"
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRestriction(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewDietaryRestrictionService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, &types.CreateRestrictionRequest{
		Name:        "  Shellfish-Free ",
		Category:    models.CategoryAllergen,
		Description: "No shellfish",
		IsAllergen:  true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Shellfish-Free", created.Name)
	assert.True(t, created.IsActive)
	assert.Equal(t, models.DefaultSeverityLevels(), created.SeverityLevels)

	_, err = svc.Create(ctx, &types.CreateRestrictionRequest{Name: "shellfish-free", Category: models.CategoryAllergen})
	assert.ErrorIs(t, err, ErrDuplicateRestriction)
}

func TestCreateRestrictionValidation(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewDietaryRestrictionService(db)
	ctx := context.Background()

	tests := []struct {
		name string
		req  types.CreateRestrictionRequest
	}{
		{"missing name", types.CreateRestrictionRequest{Category: models.CategoryLifestyle}},
		{"missing category", types.CreateRestrictionRequest{Name: "Paleo"}},
		{"unknown category", types.CreateRestrictionRequest{Name: "Paleo", Category: "fad"}},
		{"unknown severity", types.CreateRestrictionRequest{Name: "Paleo", Category: models.CategoryLifestyle, SeverityLevels: []models.Severity{"extreme"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidRestriction)
		})
	}
}

func TestUpdateRestriction(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewDietaryRestrictionService(db)
	ctx := context.Background()

	vegan := testhelpers.CreateTestRestriction(t, db, "Vegan", models.CategoryLifestyle, false)
	testhelpers.CreateTestRestriction(t, db, "Halal", models.CategoryReligious, false)

	desc := "Plant foods only"
	inactive := false
	updated, err := svc.Update(ctx, vegan.ID, &types.UpdateRestrictionRequest{
		Description:    &desc,
		IsActive:       &inactive,
		SeverityLevels: []models.Severity{models.SeverityStrict},
	})
	require.NoError(t, err)
	assert.Equal(t, "Plant foods only", updated.Description)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Vegan", updated.Name)

	stored, err := svc.Get(ctx, vegan.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, []models.Severity{models.SeverityStrict}, stored.SeverityLevels)

	taken := "halal"
	_, err = svc.Update(ctx, vegan.ID, &types.UpdateRestrictionRequest{Name: &taken})
	assert.ErrorIs(t, err, ErrDuplicateRestriction)

	same := "Vegan"
	_, err = svc.Update(ctx, vegan.ID, &types.UpdateRestrictionRequest{Name: &same})
	assert.NoError(t, err, "renaming to its own name is allowed")

	_, err = svc.Update(ctx, vegan.ID, &types.UpdateRestrictionRequest{SeverityLevels: []models.Severity{}})
	assert.ErrorIs(t, err, ErrInvalidRestriction)

	_, err = svc.Update(ctx, uuid.New(), &types.UpdateRestrictionRequest{Description: &desc})
	assert.ErrorIs(t, err, ErrRestrictionNotFound)
}

func TestDeleteRestriction(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewDietaryRestrictionService(db)
	prefs := NewDietaryPreferenceService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, models.RoleRecipient)
	kosher := testhelpers.CreateTestRestriction(t, db, "Kosher", models.CategoryReligious, false)

	_, err := prefs.UpdateUserPreferences(ctx, user.ID, []types.PreferenceInput{
		{RestrictionID: kosher.ID, Severity: models.SeverityStrict},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, kosher.ID), ErrRestrictionInUse)

	// Once no active preference references it, the restriction can go.
	_, err = prefs.UpdateUserPreferences(ctx, user.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, kosher.ID))

	_, err = svc.Get(ctx, kosher.ID)
	assert.ErrorIs(t, err, ErrRestrictionNotFound)

	var leftover int64
	require.NoError(t, db.Model(&models.UserDietaryPreference{}).Where("restriction_id = ?", kosher.ID).Count(&leftover).Error)
	assert.Zero(t, leftover)

	assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), ErrRestrictionNotFound)
}

func TestListRestrictions(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewDietaryRestrictionService(db)
	ctx := context.Background()

	created, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	require.Equal(t, len(DefaultRestrictions()), created)

	halal, err := svc.ListAvailable(ctx, types.RestrictionFilter{Category: models.CategoryReligious})
	require.NoError(t, err)
	require.Len(t, halal, 2)
	assert.Equal(t, "Halal", halal[0].Name)
	assert.Equal(t, "Kosher", halal[1].Name)

	allergen := true
	allergens, err := svc.ListAvailable(ctx, types.RestrictionFilter{IsAllergen: &allergen})
	require.NoError(t, err)
	assert.Len(t, allergens, 2)

	inactive := false
	_, err = svc.Update(ctx, halal[0].ID, &types.UpdateRestrictionRequest{IsActive: &inactive})
	require.NoError(t, err)

	available, err := svc.ListAvailable(ctx, types.RestrictionFilter{})
	require.NoError(t, err)
	assert.Len(t, available, 6)

	page, pagination, err := svc.List(ctx, types.RestrictionFilter{}, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Equal(t, types.Pagination{Page: 2, Limit: 3, Total: 7, Pages: 3}, pagination)

	_, pagination, err = svc.List(ctx, types.RestrictionFilter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.Limit)
	assert.Equal(t, 1, pagination.Pages)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewDietaryRestrictionService(db)
	ctx := context.Background()

	testhelpers.CreateTestRestriction(t, db, "Vegan", models.CategoryLifestyle, false)

	created, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRestrictions())-1, created)

	created, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestDefaultRestrictionsHavePatterns(t *testing.T) {
	patterns := NewPatternTable()
	for _, r := range DefaultRestrictions() {
		assert.True(t, patterns.Known(r.Name), r.Name)
	}
}
