package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Capability ids. Presence of a row grants the capability, absence denies it.
const (
	AccessAddObjective = 0
	AccessAdminMaster  = 1
)

type UserAccessModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_access_user_capability" json:"user_id"`
	AccessID int       `gorm:"not null;uniqueIndex:idx_user_access_user_capability" json:"access_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserAccessModel) TableName() string {
	return "user_access_mappings"
}

func (a *UserAccessModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
