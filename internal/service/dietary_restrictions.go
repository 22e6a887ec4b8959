package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytebasket/backend/internal/models"
	"github.com/bytebasket/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRestrictionNotFound  = errors.New("dietary restriction not found")
	ErrDuplicateRestriction = errors.New("dietary restriction with this name already exists")
	ErrRestrictionInUse     = errors.New("dietary restriction is currently in use")
	ErrInvalidRestriction   = errors.New("invalid dietary restriction")
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// DietaryRestrictionService manages the restriction catalog
type DietaryRestrictionService struct {
	db *gorm.DB
}

// Ensure DietaryRestrictionService implements IDietaryRestrictionService
var _ IDietaryRestrictionService = (*DietaryRestrictionService)(nil)

func NewDietaryRestrictionService(db *gorm.DB) *DietaryRestrictionService {
	return &DietaryRestrictionService{db: db}
}

func applyRestrictionFilter(query *gorm.DB, filter types.RestrictionFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.IsAllergen != nil {
		query = query.Where("is_allergen = ?", *filter.IsAllergen)
	}
	return query
}

// ListAvailable returns active restrictions ordered by category and name.
func (s *DietaryRestrictionService) ListAvailable(ctx context.Context, filter types.RestrictionFilter) ([]models.DietaryRestriction, error) {
	query := applyRestrictionFilter(s.db.WithContext(ctx).Where("is_active = ?", true), filter)

	var restrictions []models.DietaryRestriction
	if err := query.Order("category ASC, name ASC").Find(&restrictions).Error; err != nil {
		return nil, fmt.Errorf("failed to list dietary restrictions: %w", err)
	}
	return restrictions, nil
}

// List returns one page of the full catalog, active or not.
func (s *DietaryRestrictionService) List(ctx context.Context, filter types.RestrictionFilter, page, limit int) ([]models.DietaryRestriction, types.Pagination, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	var total int64
	if err := applyRestrictionFilter(s.db.WithContext(ctx).Model(&models.DietaryRestriction{}), filter).
		Count(&total).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to count dietary restrictions: %w", err)
	}

	var restrictions []models.DietaryRestriction
	if err := applyRestrictionFilter(s.db.WithContext(ctx), filter).
		Order("category ASC, name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&restrictions).Error; err != nil {
		return nil, types.Pagination{}, fmt.Errorf("failed to list dietary restrictions: %w", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return restrictions, types.Pagination{Page: page, Limit: limit, Total: total, Pages: pages}, nil
}

func (s *DietaryRestrictionService) Get(ctx context.Context, id uuid.UUID) (*models.DietaryRestriction, error) {
	var restriction models.DietaryRestriction
	if err := s.db.WithContext(ctx).First(&restriction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestrictionNotFound
		}
		return nil, fmt.Errorf("failed to get dietary restriction: %w", err)
	}
	return &restriction, nil
}

func validateSeverityLevels(levels []models.Severity) error {
	for _, level := range levels {
		if !level.Valid() {
			return fmt.Errorf("%w: unknown severity level %q", ErrInvalidRestriction, level)
		}
	}
	return nil
}

func (s *DietaryRestrictionService) nameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DietaryRestriction{}).
		Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), exclude).
		Count(&count).Error
	return count > 0, err
}

// Create adds a restriction to the catalog.
func (s *DietaryRestrictionService) Create(ctx context.Context, req *types.CreateRestrictionRequest) (*models.DietaryRestriction, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Category == "" {
		return nil, fmt.Errorf("%w: name and category are required", ErrInvalidRestriction)
	}
	if !req.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRestriction, req.Category)
	}
	if err := validateSeverityLevels(req.SeverityLevels); err != nil {
		return nil, err
	}

	taken, err := s.nameTaken(ctx, name, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check dietary restriction name: %w", err)
	}
	if taken {
		return nil, ErrDuplicateRestriction
	}

	restriction := &models.DietaryRestriction{
		Name:           name,
		Category:       req.Category,
		Description:    req.Description,
		Icon:           req.Icon,
		IsAllergen:     req.IsAllergen,
		SeverityLevels: req.SeverityLevels,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(restriction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRestriction
		}
		return nil, fmt.Errorf("failed to create dietary restriction: %w", err)
	}
	return restriction, nil
}

// Update applies the non-nil fields of req to the restriction.
func (s *DietaryRestrictionService) Update(ctx context.Context, id uuid.UUID, req *types.UpdateRestrictionRequest) (*models.DietaryRestriction, error) {
	restriction, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidRestriction)
		}
		taken, err := s.nameTaken(ctx, name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check dietary restriction name: %w", err)
		}
		if taken {
			return nil, ErrDuplicateRestriction
		}
		restriction.Name = name
	}
	if req.Category != nil {
		if !req.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRestriction, *req.Category)
		}
		restriction.Category = *req.Category
	}
	if req.Description != nil {
		restriction.Description = *req.Description
	}
	if req.Icon != nil {
		restriction.Icon = *req.Icon
	}
	if req.IsAllergen != nil {
		restriction.IsAllergen = *req.IsAllergen
	}
	if req.SeverityLevels != nil {
		if len(req.SeverityLevels) == 0 {
			return nil, fmt.Errorf("%w: at least one severity level is required", ErrInvalidRestriction)
		}
		if err := validateSeverityLevels(req.SeverityLevels); err != nil {
			return nil, err
		}
		restriction.SeverityLevels = req.SeverityLevels
	}
	if req.IsActive != nil {
		restriction.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(restriction).Error; err != nil {
		return nil, fmt.Errorf("failed to update dietary restriction: %w", err)
	}
	return restriction, nil
}

// Delete removes a restriction unless an active preference still references
// it. Inactive preference rows pointing at it are removed with it.
func (s *DietaryRestrictionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.UserDietaryPreference{}).
			Where("restriction_id = ? AND is_active = ?", id, true).
			Count(&inUse).Error; err != nil {
			return fmt.Errorf("failed to check dietary restriction usage: %w", err)
		}
		if inUse > 0 {
			return ErrRestrictionInUse
		}

		if err := tx.Where("restriction_id = ?", id).Delete(&models.UserDietaryPreference{}).Error; err != nil {
			return fmt.Errorf("failed to remove inactive preferences: %w", err)
		}

		result := tx.Delete(&models.DietaryRestriction{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete dietary restriction: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRestrictionNotFound
		}
		return nil
	})
}

// DefaultRestrictions is the built-in catalog; every entry has a keyword pattern.
func DefaultRestrictions() []models.DietaryRestriction {
	return []models.DietaryRestriction{
		{Name: "Vegan", Category: models.CategoryLifestyle, Description: "No animal products or by-products"},
		{Name: "Vegetarian", Category: models.CategoryLifestyle, Description: "No meat or fish"},
		{Name: "Gluten-Free", Category: models.CategoryMedical, Description: "No gluten-containing ingredients"},
		{Name: "Dairy-Free", Category: models.CategoryAllergen, Description: "No milk or milk-based products", IsAllergen: true},
		{Name: "Nut-Free", Category: models.CategoryAllergen, Description: "No nuts or nut-based products", IsAllergen: true},
		{Name: "Kosher", Category: models.CategoryReligious, Description: "Prepared according to Jewish dietary laws"},
		{Name: "Halal", Category: models.CategoryReligious, Description: "Prepared according to Islamic dietary laws"},
	}
}

// SeedDefaults inserts any missing built-in restrictions and returns how many were created.
func (s *DietaryRestrictionService) SeedDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, def := range DefaultRestrictions() {
		taken, err := s.nameTaken(ctx, def.Name, uuid.Nil)
		if err != nil {
			return created, fmt.Errorf("failed to check restriction %s: %w", def.Name, err)
		}
		if taken {
			continue
		}
		restriction := def
		restriction.IsActive = true
		if err := s.db.WithContext(ctx).Create(&restriction).Error; err != nil {
			return created, fmt.Errorf("failed to seed restriction %s: %w", def.Name, err)
		}
		created++
	}
	return created, nil
}
