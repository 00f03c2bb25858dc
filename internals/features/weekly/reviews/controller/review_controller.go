package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authService "okrhub_backend/internals/features/users/teamsauth/service"
	formDTO "okrhub_backend/internals/features/weekly/forms/dto"
	formModel "okrhub_backend/internals/features/weekly/forms/model"
	formService "okrhub_backend/internals/features/weekly/forms/service"
	questionModel "okrhub_backend/internals/features/weekly/questions/model"
	"okrhub_backend/internals/features/weekly/reviews/dto"
	"okrhub_backend/internals/features/weekly/reviews/service"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type ReviewController struct {
	DB      *gorm.DB
	Service *service.ReviewService
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db, Service: service.NewReviewService(db)}
}

// GET /api/weekly-forms/team-members
func (ctrl *ReviewController) TeamMembers(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	members, err := ctrl.Service.TeamMembers(profile)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch team members")
	}
	return helper.Success(c, "Team members fetched", members)
}

// GET /api/weekly-forms/team-member-forms
// Lists the reports' forms and lazily creates pending reviews for the
// submitted ones.
func (ctrl *ReviewController) TeamMemberForms(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}

	members, err := ctrl.Service.TeamMembers(profile)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch team members")
	}
	names := make(map[uuid.UUID]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName()
	}

	forms, err := ctrl.Service.TeamMemberForms(profile)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch team member forms")
	}

	lookup, err := questionLookup(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}

	now := time.Now()
	out := make([]formDTO.FormResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, formDTO.NewFormResponse(f, names[f.UserID], lookup, now))
	}
	return helper.Success(c, "Team member forms fetched", out)
}

// GET /api/weekly-forms/:id/review
func (ctrl *ReviewController) ReviewDetails(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	formID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid form id")
	}

	detail, err := ctrl.Service.GetReviewDetail(formID, profile)
	if err != nil {
		return reviewError(c, err)
	}

	// employee answers are rendered against the full catalog, the manager set
	// may not contain the employee questions
	fullLookup, err := questionLookup(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}

	managerAnswers := make([]formDTO.AnswerResponse, 0, len(detail.ManagerAnswers))
	for _, a := range detail.ManagerAnswers {
		managerAnswers = append(managerAnswers, formDTO.NewAnswerResponse(formModel.UserAnswerModel{
			ID:                a.ID,
			QuestionID:        a.QuestionID,
			OptionID:          a.OptionID,
			AnswerDescription: a.AnswerDescription,
		}, fullLookup))
	}
	employeeAnswers := make([]formDTO.AnswerResponse, 0, len(detail.EmployeeAnswers))
	for _, a := range detail.EmployeeAnswers {
		employeeAnswers = append(employeeAnswers, formDTO.NewAnswerResponse(a, fullLookup))
	}

	var ownerName string
	if owner, err := authService.GetProfileByID(ctrl.DB, detail.Form.UserID); err == nil {
		ownerName = owner.DisplayName()
	}

	return helper.Success(c, "Review details fetched", fiber.Map{
		"form":              formDTO.NewFormResponse(detail.Form, ownerName, fullLookup, time.Now()),
		"review":            dto.NewReviewResponse(detail.Review, profile.DisplayName(), managerAnswers),
		"manager_questions": detail.Questions,
		"manager_answers":   managerAnswers,
		"employee_answers":  employeeAnswers,
		"can_edit":          true,
	})
}

// POST /api/weekly-forms/:id/review
func (ctrl *ReviewController) SubmitReview(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	formID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid form id")
	}

	var req dto.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	if err := ctrl.Service.SubmitReview(formID, profile, req.Answers, req.SummaryComments); err != nil {
		return reviewError(c, err)
	}
	return helper.Success(c, "Manager review submitted successfully", nil)
}

// GET /api/weekly-forms/team-metrics
func (ctrl *ReviewController) TeamMetrics(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	metrics, err := ctrl.Service.TeamMetrics(profile, time.Now())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute team metrics")
	}
	return helper.Success(c, "Team metrics computed", metrics)
}

func questionLookup(db *gorm.DB) (formDTO.QuestionLookup, error) {
	var questions []questionModel.QuestionModel
	if err := db.Preload("Options").Find(&questions).Error; err != nil {
		return formDTO.QuestionLookup{}, err
	}
	return formDTO.NewQuestionLookup(questions), nil
}

func reviewError(c *fiber.Ctx, err error) error {
	var ve *formService.ValidationError
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Form not found")
	case errors.Is(err, service.ErrNotAuthorized):
		return helper.Error(c, fiber.StatusForbidden, "You are not authorized to review this form")
	case errors.As(err, &ve):
		return helper.ErrorWithDetails(c, fiber.StatusBadRequest, "Validation failed", ve.Violations)
	default:
		return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
