package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	AssignedToID uuid.UUID `json:"assigned_to" validate:"required"`
	LinkedOKRID  uuid.UUID `json:"linked_to_okr" validate:"required"`
}

type UpdateTaskRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Status          *int       `json:"status,omitempty" validate:"omitempty,min=0,max=4"`
	AssignedToID    *uuid.UUID `json:"assigned_to,omitempty"`
	ProgressPercent *float64   `json:"progress_percent,omitempty" validate:"omitempty,min=0,max=100"`
}

func (r *UpdateTaskRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Title != nil {
		updates["title"] = *r.Title
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.StartDate != nil {
		updates["start_date"] = *r.StartDate
	}
	if r.DueDate != nil {
		updates["due_date"] = *r.DueDate
	}
	if r.Status != nil {
		updates["status"] = *r.Status
	}
	if r.AssignedToID != nil {
		updates["assigned_to_id"] = *r.AssignedToID
	}
	if r.ProgressPercent != nil {
		updates["progress_percent"] = *r.ProgressPercent
	}
	return updates
}

type CreateChallengeRequest struct {
	TaskID        uuid.UUID `json:"task_id" validate:"required"`
	ChallengeName string    `json:"challenge_name" validate:"required,max=200"`
	Status        int       `json:"status" validate:"min=0,max=3"`
	DueDate       time.Time `json:"due_date" validate:"required"`
	Remarks       string    `json:"remarks" validate:"max=255"`
}

type UpdateChallengeRequest struct {
	ChallengeName *string    `json:"challenge_name,omitempty" validate:"omitempty,min=1,max=200"`
	Status        *int       `json:"status,omitempty" validate:"omitempty,min=0,max=3"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Remarks       *string    `json:"remarks,omitempty" validate:"omitempty,max=255"`
}

func (r *UpdateChallengeRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.ChallengeName != nil {
		updates["challenge_name"] = *r.ChallengeName
	}
	if r.Status != nil {
		updates["status"] = *r.Status
	}
	if r.DueDate != nil {
		updates["due_date"] = *r.DueDate
	}
	if r.Remarks != nil {
		updates["remarks"] = *r.Remarks
	}
	return updates
}
