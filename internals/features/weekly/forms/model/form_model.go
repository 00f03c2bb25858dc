package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "okrhub_backend/internals/helpers"
)

// Form status values.
const (
	FormStatusNotStarted = 0
	FormStatusInProgress = 1
	FormStatusSubmitted  = 2
)

func FormStatusLabel(status int) string {
	switch status {
	case FormStatusInProgress:
		return "In Progress"
	case FormStatusSubmitted:
		return "Submitted"
	default:
		return "Not Started"
	}
}

// FormModel is one user's weekly-discussion form. EntryDate is always the
// Monday of the form's week; the unique index on (user_id, entry_date) is what
// keeps EnsureWindow idempotent under concurrent callers.
type FormModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"form_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_forms_user_week" json:"user"`
	EntryDate time.Time `gorm:"not null;uniqueIndex:idx_forms_user_week" json:"entry_date"`
	Status    int       `gorm:"not null;default:0" json:"status"`

	// Manager summary copied here on review submission, kept for older clients.
	// Same width as the review's summary column so the copy can never overflow.
	ManagerReview string `gorm:"size:500" json:"manager_review,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Answers []UserAnswerModel `gorm:"foreignKey:FormID" json:"answers,omitempty"`
}

func (FormModel) TableName() string { return "form_data" }

func (f *FormModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// IsFuture reports whether the form's week has not started yet. EntryDate is
// midnight-aligned, so a later clock time on the same day is not future.
func (f *FormModel) IsFuture(today time.Time) bool {
	if helper.SameDate(f.EntryDate, today) {
		return false
	}
	return f.EntryDate.After(today)
}

// UserAnswerModel holds one answer of a weekly form: a selected option for
// multiple-choice questions, free text for descriptive ones, never both.
type UserAnswerModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"uad_id"`
	FormID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"form"`
	QuestionID uuid.UUID  `gorm:"type:uuid;not null" json:"question"`
	OptionID   *uuid.UUID `gorm:"type:uuid" json:"option,omitempty"`
	AnswerDescription string `gorm:"size:250" json:"answer_description,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserAnswerModel) TableName() string { return "user_answer_data" }

func (a *UserAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
