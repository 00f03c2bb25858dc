package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status values.
const (
	TaskStatusCompleted  = 0
	TaskStatusInProgress = 1
	TaskStatusHold       = 2
	TaskStatusDelayed    = 3
	TaskStatusYetToStart = 4
)

// Challenge status values.
const (
	ChallengeStatusYetToStart = 0
	ChallengeStatusActive     = 1
	ChallengeStatusDiscarded  = 2
	ChallengeStatusResolved   = 3
)

func TaskStatusLabel(status int) string {
	switch status {
	case TaskStatusCompleted:
		return "Completed"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusHold:
		return "Hold"
	case TaskStatusDelayed:
		return "Delayed"
	default:
		return "Yet to Start"
	}
}

func ChallengeStatusLabel(status int) string {
	switch status {
	case ChallengeStatusActive:
		return "Active"
	case ChallengeStatusDiscarded:
		return "Discarded"
	case ChallengeStatusResolved:
		return "Resolved"
	default:
		return "Yet to Start"
	}
}

type TaskModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"task_id"`
	Title       string    `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Description string    `gorm:"type:text" json:"description"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	DueDate   time.Time `gorm:"not null" json:"due_date"`
	Status    int       `gorm:"not null;default:4" json:"status" validate:"min=0,max=4"`

	AssignedToID uuid.UUID `gorm:"type:uuid;not null;index" json:"assigned_to" validate:"required"`
	LinkedOKRID  uuid.UUID `gorm:"type:uuid;not null;index" json:"linked_to_okr" validate:"required"`

	ProgressPercent float64 `gorm:"type:decimal(5,2);not null;default:0" json:"progress_percent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaskModel) TableName() string { return "tasks" }

func (t *TaskModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TaskChallengeModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID        uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id" validate:"required"`
	ChallengeName string    `gorm:"size:200;not null;default:''" json:"challenge_name"`
	Status        int       `gorm:"not null;default:0" json:"status" validate:"min=0,max=3"`
	DueDate       time.Time `gorm:"not null" json:"due_date"`
	Remarks       string    `gorm:"size:255" json:"remarks"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TaskChallengeModel) TableName() string { return "task_challenges" }

func (t *TaskChallengeModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
