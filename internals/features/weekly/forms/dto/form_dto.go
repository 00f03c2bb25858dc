package dto

import (
	"time"

	"github.com/google/uuid"

	helper "okrhub_backend/internals/helpers"
	formModel "okrhub_backend/internals/features/weekly/forms/model"
	questionModel "okrhub_backend/internals/features/weekly/questions/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// AnswerRecord is one flat answer in a submission payload. Exactly one of
// OptionID / AnswerDescription is meaningful, depending on the question kind.
type AnswerRecord struct {
	QuestionID        uuid.UUID  `json:"question_id" validate:"required"`
	OptionID          *uuid.UUID `json:"option_id,omitempty"`
	AnswerDescription string     `json:"answer_description,omitempty"`
}

type SubmitFormRequest struct {
	Answers []AnswerRecord `json:"answers" validate:"required,dive"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type AnswerResponse struct {
	ID                uuid.UUID  `json:"uad_id"`
	QuestionID        uuid.UUID  `json:"question"`
	QuestionText      string     `json:"question_text"`
	OptionID          *uuid.UUID `json:"option,omitempty"`
	OptionDesc        string     `json:"option_desc,omitempty"`
	AnswerDescription string     `json:"answer_description,omitempty"`
}

type FormResponse struct {
	ID            uuid.UUID        `json:"form_id"`
	UserID        uuid.UUID        `json:"user"`
	UserName      string           `json:"user_name"`
	EntryDate     string           `json:"entry_date"`
	Week          string           `json:"week"`
	Status        int              `json:"status"`
	StatusDisplay string           `json:"status_display"`
	ManagerReview string           `json:"manager_review,omitempty"`
	IsFuture      bool             `json:"is_future"`
	CanEdit       bool             `json:"can_edit"`
	Answers       []AnswerResponse `json:"answers"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// QuestionLookup indexes questions and their options for answer rendering.
type QuestionLookup struct {
	Questions map[uuid.UUID]questionModel.QuestionModel
	Options   map[uuid.UUID]questionModel.OptionModel
}

func NewQuestionLookup(questions []questionModel.QuestionModel) QuestionLookup {
	l := QuestionLookup{
		Questions: make(map[uuid.UUID]questionModel.QuestionModel, len(questions)),
		Options:   make(map[uuid.UUID]questionModel.OptionModel),
	}
	for _, q := range questions {
		l.Questions[q.ID] = q
		for _, o := range q.Options {
			l.Options[o.ID] = o
		}
	}
	return l
}

func NewAnswerResponse(a formModel.UserAnswerModel, lookup QuestionLookup) AnswerResponse {
	resp := AnswerResponse{
		ID:                a.ID,
		QuestionID:        a.QuestionID,
		OptionID:          a.OptionID,
		AnswerDescription: a.AnswerDescription,
	}
	if q, ok := lookup.Questions[a.QuestionID]; ok {
		resp.QuestionText = q.QuestionName
	}
	if a.OptionID != nil {
		if o, ok := lookup.Options[*a.OptionID]; ok {
			resp.OptionDesc = o.OptionDesc
		}
	}
	return resp
}

func NewFormResponse(f formModel.FormModel, userName string, lookup QuestionLookup, today time.Time) FormResponse {
	answers := make([]AnswerResponse, 0, len(f.Answers))
	for _, a := range f.Answers {
		answers = append(answers, NewAnswerResponse(a, lookup))
	}
	isFuture := f.IsFuture(today)
	return FormResponse{
		ID:            f.ID,
		UserID:        f.UserID,
		UserName:      userName,
		EntryDate:     f.EntryDate.Format("2006-01-02"),
		Week:          helper.WeekLabel(f.EntryDate),
		Status:        f.Status,
		StatusDisplay: formModel.FormStatusLabel(f.Status),
		ManagerReview: f.ManagerReview,
		IsFuture:      isFuture,
		CanEdit:       !isFuture,
		Answers:       answers,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}
