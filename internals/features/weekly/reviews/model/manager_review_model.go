package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review status values.
const (
	ReviewStatusNotStarted = 0
	ReviewStatusInProgress = 1
	ReviewStatusCompleted  = 2
)

func ReviewStatusLabel(status int) string {
	switch status {
	case ReviewStatusInProgress:
		return "In Progress"
	case ReviewStatusCompleted:
		return "Completed"
	default:
		return "Not Started"
	}
}

// ManagerReviewModel is a manager's evaluation of a submitted weekly form.
// The unique index on (form_id, manager_id) keeps review creation idempotent.
type ManagerReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"review_id"`
	FormID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_form_manager" json:"form"`
	ManagerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_form_manager" json:"manager"`
	Status    int       `gorm:"not null;default:0" json:"status"`

	SummaryComments string `gorm:"size:500" json:"summary_comments,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Answers []ManagerAnswerModel `gorm:"foreignKey:ReviewID" json:"answers,omitempty"`
}

func (ManagerReviewModel) TableName() string { return "manager_reviews" }

func (r *ManagerReviewModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ManagerAnswerModel mirrors a form answer, scoped to a review. The descriptive
// limit is larger than the employee side (500 vs 250).
type ManagerAnswerModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"answer_id"`
	ReviewID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"review"`
	QuestionID uuid.UUID  `gorm:"type:uuid;not null" json:"question"`
	OptionID   *uuid.UUID `gorm:"type:uuid" json:"option,omitempty"`
	AnswerDescription string `gorm:"size:500" json:"answer_description,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ManagerAnswerModel) TableName() string { return "manager_answer_data" }

func (a *ManagerAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
