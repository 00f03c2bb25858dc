package dto

import (
	"time"

	"github.com/google/uuid"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateOKRRequest struct {
	Name            string      `json:"name" validate:"required,max=200"`
	Description     string      `json:"description"`
	Assumptions     string      `json:"assumptions"`
	ParentOKRID     *uuid.UUID  `json:"parent_okr,omitempty"`
	DepartmentID    uuid.UUID   `json:"department" validate:"required"`
	StartDate       time.Time   `json:"start_date" validate:"required"`
	DueDate         time.Time   `json:"due_date" validate:"required"`
	IsMeasurable    bool        `json:"is_measurable"`
	UserIDs         []uuid.UUID `json:"users,omitempty"`
	PrimaryUserID   *uuid.UUID  `json:"primary_user,omitempty"`
	BusinessUnitIDs []uuid.UUID `json:"business_units,omitempty"`
}

type UpdateOKRRequest struct {
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description,omitempty"`
	Assumptions     *string    `json:"assumptions,omitempty"`
	ParentOKRID     *uuid.UUID `json:"parent_okr,omitempty"`
	DepartmentID    *uuid.UUID `json:"department,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Status          *bool      `json:"status,omitempty"`
	ProgressPercent *float64   `json:"progress_percent,omitempty" validate:"omitempty,min=0,max=100"`
	IsMeasurable    *bool      `json:"is_measurable,omitempty"`
}

func (r *UpdateOKRRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.Assumptions != nil {
		updates["assumptions"] = *r.Assumptions
	}
	if r.ParentOKRID != nil {
		updates["parent_okr_id"] = *r.ParentOKRID
	}
	if r.DepartmentID != nil {
		updates["department_id"] = *r.DepartmentID
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
	if r.ProgressPercent != nil {
		updates["progress_percent"] = *r.ProgressPercent
	}
	if r.IsMeasurable != nil {
		updates["is_measurable"] = *r.IsMeasurable
	}
	return updates
}

// AssignUsersRequest replaces an OKR's user set wholesale.
type AssignUsersRequest struct {
	UserIDs       []uuid.UUID `json:"users" validate:"required"`
	PrimaryUserID *uuid.UUID  `json:"primary_user,omitempty"`
}

// AssignBusinessUnitsRequest replaces an OKR's business-unit set wholesale.
type AssignBusinessUnitsRequest struct {
	BusinessUnitIDs []uuid.UUID `json:"business_units" validate:"required"`
}

type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateBusinessUnitRequest struct {
	Name string `json:"business_unit_name" validate:"required,max=100"`
}
