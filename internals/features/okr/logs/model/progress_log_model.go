package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressLogModel is one weekly progress entry a user records against an OKR.
type ProgressLogModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"log_id"`
	Date  time.Time `gorm:"not null" json:"date"`
	OkrID uuid.UUID `gorm:"type:uuid;not null;index" json:"okr" validate:"required"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user" validate:"required"`

	ProgressPercent float64 `gorm:"type:decimal(5,2);not null;default:0" json:"progress_percent"`
	Status          string  `gorm:"size:50" json:"status"`
	ConfidenceLevel int     `gorm:"not null;default:0" json:"confidence_level" validate:"min=0,max=10"`
	Comment         string  `gorm:"type:text" json:"comment"`
	IsAutoGenerated bool    `gorm:"not null;default:false" json:"is_auto_generated"`
	Source          string  `gorm:"size:100" json:"source"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProgressLogModel) TableName() string { return "progress_logs" }

func (l *ProgressLogModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
