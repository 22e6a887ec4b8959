package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleRecipient = "recipient"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// User is the slice of the account record the dietary subsystem touches.
type User struct {
	ID                          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt                   time.Time      `json:"created_at"`
	UpdatedAt                   time.Time      `json:"updated_at"`
	DeletedAt                   gorm.DeletedAt `gorm:"index" json:"-"`
	Name                        string         `gorm:"not null" json:"name"`
	Email                       string         `gorm:"uniqueIndex;not null" json:"email"`
	Role                        string         `gorm:"size:20;not null;default:'recipient'" json:"role"`
	DietaryPreferencesUpdatedAt *time.Time     `json:"dietary_preferences_updated_at,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
