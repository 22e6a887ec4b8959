package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DietaryPreferenceService stores users' dietary preference sets
type DietaryPreferenceService struct {
	db  *gorm.DB
	now func() time.Time
}

// Ensure DietaryPreferenceService implements IDietaryPreferenceService
var _ IDietaryPreferenceService = (*DietaryPreferenceService)(nil)

// NewDietaryPreferenceService creates a new DietaryPreferenceService instance
func NewDietaryPreferenceService(db *gorm.DB) *DietaryPreferenceService {
	return &DietaryPreferenceService{
		db:  db,
		now: time.Now,
	}
}

// GetUserDietaryPreferences returns the user's active preferences in the
// order they were submitted. Restriction is only populated for active restrictions.
func (s *DietaryPreferenceService) GetUserDietaryPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserDietaryPreference, error) {
	var prefs []models.UserDietaryPreference
	err := s.db.WithContext(ctx).
		Preload("Restriction", "is_active = ?", true).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("position ASC, id ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load dietary preferences: %w", err)
	}
	return prefs, nil
}

// ListUserPreferences returns the user's active preferences in submission
// order with the restriction always attached.
func (s *DietaryPreferenceService) ListUserPreferences(ctx context.Context, userID uuid.UUID) ([]models.UserDietaryPreference, error) {
	var prefs []models.UserDietaryPreference
	err := s.db.WithContext(ctx).
		Preload("Restriction").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("position ASC, id ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dietary preferences: %w", err)
	}
	return prefs, nil
}

// UpdateUserPreferences replaces the user's whole preference set in one
// transaction. Entries without a known active restriction or with an
// invalid severity are skipped.
func (s *DietaryPreferenceService) UpdateUserPreferences(ctx context.Context, userID uuid.UUID, inputs []types.PreferenceInput) ([]models.UserDietaryPreference, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserDietaryPreference{}).
			Where("user_id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate preferences: %w", err)
		}

		rows, err := s.buildPreferenceRows(tx, userID, inputs)
		if err != nil {
			return err
		}

		if len(rows) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "restriction_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"severity", "notes", "position", "is_active", "updated_at"}),
			}).Create(&rows).Error
			if err != nil {
				return fmt.Errorf("failed to save preferences: %w", err)
			}
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("dietary_preferences_updated_at", s.now()).Error
	})
	if err != nil {
		return nil, err
	}

	return s.ListUserPreferences(ctx, userID)
}

func (s *DietaryPreferenceService) buildPreferenceRows(tx *gorm.DB, userID uuid.UUID, inputs []types.PreferenceInput) ([]models.UserDietaryPreference, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		if in.RestrictionID != uuid.Nil {
			ids = append(ids, in.RestrictionID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var known []models.DietaryRestriction
	if err := tx.Select("id").Where("id IN ? AND is_active = ?", ids, true).Find(&known).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve restrictions: %w", err)
	}
	active := make(map[uuid.UUID]bool, len(known))
	for _, r := range known {
		active[r.ID] = true
	}

	// Later entries for the same restriction win.
	index := make(map[uuid.UUID]int)
	var rows []models.UserDietaryPreference
	for pos, in := range inputs {
		if !active[in.RestrictionID] || !in.Severity.Valid() {
			continue
		}
		row := models.UserDietaryPreference{
			UserID:        userID,
			RestrictionID: in.RestrictionID,
			Severity:      in.Severity,
			Notes:         in.Notes,
			Position:      pos,
			IsActive:      true,
		}
		if i, ok := index[in.RestrictionID]; ok {
			rows[i] = row
			continue
		}
		index[in.RestrictionID] = len(rows)
		rows = append(rows, row)
	}
	return rows, nil
}
