package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestrictionCategory groups catalog restrictions.
type RestrictionCategory string

const (
	CategoryAllergen  RestrictionCategory = "allergen"
	CategoryLifestyle RestrictionCategory = "lifestyle"
	CategoryReligious RestrictionCategory = "religious"
	CategoryMedical   RestrictionCategory = "medical"
)

// Valid reports whether c is one of the known categories.
func (c RestrictionCategory) Valid() bool {
	switch c {
	case CategoryAllergen, CategoryLifestyle, CategoryReligious, CategoryMedical:
		return true
	}
	return false
}

// Severity is how strictly a user wants a restriction enforced.
type Severity string

const (
	SeverityMild   Severity = "mild"
	SeverityStrict Severity = "strict"
)

func (s Severity) Valid() bool {
	return s == SeverityMild || s == SeverityStrict
}

// DefaultSeverityLevels is used when a restriction is created without explicit levels.
func DefaultSeverityLevels() []Severity {
	return []Severity{SeverityMild, SeverityStrict}
}

// DietaryRestriction is a named rule in the restriction catalog.
type DietaryRestriction struct {
	ID             uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	Name           string              `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category       RestrictionCategory `gorm:"size:20;not null;index:idx_restriction_category_active" json:"category"`
	Description    string              `gorm:"size:500" json:"description"`
	Icon           string              `gorm:"size:255" json:"icon"`
	IsAllergen     bool                `gorm:"not null;index" json:"isAllergen"`
	SeverityLevels []Severity          `gorm:"type:text;serializer:json" json:"severityLevels"`
	IsActive       bool                `gorm:"not null;index:idx_restriction_category_active" json:"isActive"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (DietaryRestriction) TableName() string {
	return "dietary_restrictions"
}

func (r *DietaryRestriction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if len(r.SeverityLevels) == 0 {
		r.SeverityLevels = DefaultSeverityLevels()
	}
	return nil
}

// SupportsSeverity reports whether the restriction declares the given level.
func (r *DietaryRestriction) SupportsSeverity(s Severity) bool {
	for _, level := range r.SeverityLevels {
		if level == s {
			return true
		}
	}
	return false
}

// UserDietaryPreference is a user's adoption of a catalog restriction.
// Restriction is nil when the referenced restriction is inactive or gone.
// Position is the index the preference had in the user's last submission
// and fixes the order preferences are evaluated in.
type UserDietaryPreference struct {
	ID            uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID           `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_restriction;index:idx_user_active" json:"userId"`
	RestrictionID uuid.UUID           `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_restriction;index" json:"restrictionId"`
	Severity      Severity            `gorm:"size:10;not null" json:"severity"`
	IsActive      bool                `gorm:"not null;index:idx_user_active" json:"isActive"`
	Notes         string              `gorm:"size:500" json:"notes"`
	Position      int                 `json:"position"`
	Restriction   *DietaryRestriction `gorm:"foreignKey:RestrictionID" json:"restriction,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

func (UserDietaryPreference) TableName() string {
	return "user_dietary_preferences"
}

func (p *UserDietaryPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Severity == "" {
		p.Severity = SeverityMild
	}
	return nil
}
