package dto

import (
	"strings"

	qModel "okrhub_backend/internals/features/weekly/questions/model"
)

// CreateQuestionRequest — admin-side question creation, options inline.
type CreateQuestionRequest struct {
	QuestionName string   `json:"question_name" validate:"required"`
	Type         int      `json:"type" validate:"min=0,max=1"`
	AuthType     int      `json:"authentication_type" validate:"min=0,max=2"`
	IsActive     *bool    `json:"is_active,omitempty"`
	Options      []string `json:"options,omitempty" validate:"omitempty,dive,required"`
}

func (r *CreateQuestionRequest) Normalize() {
	r.QuestionName = strings.TrimSpace(r.QuestionName)
	for i := range r.Options {
		r.Options[i] = strings.TrimSpace(r.Options[i])
	}
}

func (r *CreateQuestionRequest) ToModel() *qModel.QuestionModel {
	m := &qModel.QuestionModel{
		QuestionName: r.QuestionName,
		Type:         r.Type,
		AuthType:     r.AuthType,
		IsActive:     true,
	}
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	for _, opt := range r.Options {
		m.Options = append(m.Options, qModel.OptionModel{OptionDesc: opt})
	}
	return m
}

// UpdateQuestionRequest — partial update, pointers so omit and null differ.
type UpdateQuestionRequest struct {
	QuestionName *string `json:"question_name,omitempty" validate:"omitempty,min=1"`
	AuthType     *int    `json:"authentication_type,omitempty" validate:"omitempty,min=0,max=2"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

func (r *UpdateQuestionRequest) Normalize() {
	if r.QuestionName != nil {
		v := strings.TrimSpace(*r.QuestionName)
		r.QuestionName = &v
	}
}

func (r *UpdateQuestionRequest) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.QuestionName != nil {
		updates["question_name"] = *r.QuestionName
	}
	if r.AuthType != nil {
		updates["authentication_type"] = *r.AuthType
	}
	if r.IsActive != nil {
		updates["is_active"] = *r.IsActive
	}
	return updates
}
