package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authService "okrhub_backend/internals/features/users/teamsauth/service"
	"okrhub_backend/internals/features/weekly/forms/dto"
	"okrhub_backend/internals/features/weekly/forms/service"
	qModel "okrhub_backend/internals/features/weekly/questions/model"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type FormController struct {
	DB      *gorm.DB
	Service *service.FormService
}

func NewFormController(db *gorm.DB) *FormController {
	return &FormController{DB: db, Service: service.NewFormService(db)}
}

// GET /api/weekly-forms
// Lazily backfills the caller's 8-week window, then lists all forms newest
// week first.
func (ctrl *FormController) MyForms(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}

	now := time.Now()
	if _, err := ctrl.Service.EnsureWindow(profile.ID, now); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to generate weekly forms")
	}

	forms, err := ctrl.Service.ListForms(profile.ID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch weekly forms")
	}

	lookup, err := ctrl.questionLookup()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}

	out := make([]dto.FormResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, dto.NewFormResponse(f, profile.DisplayName(), lookup, now))
	}
	return helper.Success(c, "Weekly forms fetched", out)
}

// GET /api/weekly-forms/:id/questions
// The form plus the active employee question set and existing answers.
func (ctrl *FormController) Questions(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	formID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid form id")
	}

	now := time.Now()
	fillable, err := ctrl.Service.GetFillable(formID, profile.ID, now)
	if err != nil {
		return formError(c, err)
	}

	lookup := dto.NewQuestionLookup(fillable.Questions)
	answers := make([]dto.AnswerResponse, 0, len(fillable.Answers))
	for _, a := range fillable.Answers {
		answers = append(answers, dto.NewAnswerResponse(a, lookup))
	}

	return helper.Success(c, "Form questions fetched", fiber.Map{
		"form":      dto.NewFormResponse(fillable.Form, profile.DisplayName(), lookup, now),
		"questions": fillable.Questions,
		"answers":   answers,
	})
}

// POST /api/weekly-forms/:id/draft
func (ctrl *FormController) SaveDraft(c *fiber.Ctx) error {
	return ctrl.write(c, ctrl.Service.SaveDraft, "Draft saved")
}

// POST /api/weekly-forms/:id/submit
func (ctrl *FormController) Submit(c *fiber.Ctx) error {
	return ctrl.write(c, ctrl.Service.Submit, "Form submitted successfully")
}

// POST /api/weekly-forms/:id/resubmit
func (ctrl *FormController) Resubmit(c *fiber.Ctx) error {
	return ctrl.write(c, ctrl.Service.Resubmit, "Form updated successfully")
}

func (ctrl *FormController) write(
	c *fiber.Ctx,
	op func(formID, userID uuid.UUID, answers []dto.AnswerRecord, today time.Time) error,
	okMessage string,
) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	formID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid form id")
	}

	var req dto.SubmitFormRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := op(formID, profile.ID, req.Answers, time.Now()); err != nil {
		return formError(c, err)
	}
	return helper.Success(c, okMessage, nil)
}

func (ctrl *FormController) questionLookup() (dto.QuestionLookup, error) {
	var questions []qModel.QuestionModel
	if err := ctrl.DB.Preload("Options").Find(&questions).Error; err != nil {
		return dto.QuestionLookup{}, err
	}
	return dto.NewQuestionLookup(questions), nil
}

// formError maps service errors onto the response envelope.
func formError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Form not found")
	case errors.Is(err, service.ErrFutureForm):
		return helper.Error(c, fiber.StatusForbidden, "Cannot fill forms for future weeks")
	case errors.As(err, &ve):
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", ve.Violations)
	default:
		return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
