package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question kinds.
const (
	QuestionTypeDescriptive = 0
	QuestionTypeMCQ         = 1
)

// Question audiences.
const (
	AudienceEmployee = 0
	AudienceManager  = 1
	AudienceBoth     = 2
)

// QuestionModel is the master list of questionnaire items. Answers denormalize
// the display text at read time, so rows are deactivated rather than deleted
// once answers reference them.
type QuestionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"question_id"`
	QuestionName string    `gorm:"type:text;not null" json:"question_name" validate:"required"`
	Type         int       `gorm:"not null" json:"type" validate:"min=0,max=1"`
	AuthType     int       `gorm:"not null;default:0;column:authentication_type" json:"authentication_type" validate:"min=0,max=2"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Options []OptionModel `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuestionModel) TableName() string { return "question_master" }

func (q *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// ForAudience reports whether the question applies to the given audience,
// counting "both" for either side.
func (q *QuestionModel) ForAudience(audience int) bool {
	return q.AuthType == audience || q.AuthType == AudienceBoth
}

// OptionModel is one multiple-choice option of a question.
type OptionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"option_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	OptionDesc string    `gorm:"type:text;not null" json:"option_desc" validate:"required"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (OptionModel) TableName() string { return "option_mapper" }

func (o *OptionModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
