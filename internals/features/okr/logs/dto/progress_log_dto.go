package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProgressLogRequest struct {
	Date            time.Time `json:"date" validate:"required"`
	OkrID           uuid.UUID `json:"okr" validate:"required"`
	ProgressPercent float64   `json:"progress_percent" validate:"min=0,max=100"`
	Status          string    `json:"status" validate:"max=50"`
	ConfidenceLevel int       `json:"confidence_level" validate:"min=0,max=10"`
	Comment         string    `json:"comment"`
}
