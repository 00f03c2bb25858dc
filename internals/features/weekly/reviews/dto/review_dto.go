package dto

import (
	"time"

	"github.com/google/uuid"

	formDTO "okrhub_backend/internals/features/weekly/forms/dto"
	"okrhub_backend/internals/features/weekly/reviews/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type SubmitReviewRequest struct {
	Answers         []formDTO.AnswerRecord `json:"answers" validate:"required,dive"`
	SummaryComments string                 `json:"summary_comments" validate:"max=500"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type ReviewResponse struct {
	ID              uuid.UUID                 `json:"review_id"`
	FormID          uuid.UUID                 `json:"form"`
	ManagerID       uuid.UUID                 `json:"manager"`
	ManagerName     string                    `json:"manager_name"`
	Status          int                       `json:"status"`
	StatusDisplay   string                    `json:"status_display"`
	SummaryComments string                    `json:"summary_comments,omitempty"`
	Answers         []formDTO.AnswerResponse  `json:"answers"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

func NewReviewResponse(r model.ManagerReviewModel, managerName string, answers []formDTO.AnswerResponse) ReviewResponse {
	if answers == nil {
		answers = []formDTO.AnswerResponse{}
	}
	return ReviewResponse{
		ID:              r.ID,
		FormID:          r.FormID,
		ManagerID:       r.ManagerID,
		ManagerName:     managerName,
		Status:          r.Status,
		StatusDisplay:   model.ReviewStatusLabel(r.Status),
		SummaryComments: r.SummaryComments,
		Answers:         answers,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// TeamMetricsResponse summarizes a manager's team over non-future weeks.
type TeamMetricsResponse struct {
	TotalForms       int64   `json:"total_forms"`
	CompletedForms   int64   `json:"completed_forms"`
	CompletionRate   float64 `json:"completion_rate"`
	CompletedReviews int64   `json:"completed_reviews"`
	PendingReviews   int64   `json:"pending_reviews"`
}
