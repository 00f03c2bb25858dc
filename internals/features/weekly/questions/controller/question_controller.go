package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/weekly/questions/dto"
	"okrhub_backend/internals/features/weekly/questions/model"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type QuestionController struct {
	DB *gorm.DB
}

func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{DB: db}
}

// GET /api/questions
// Full catalog including inactive rows, admin view.
func (ctrl *QuestionController) List(c *fiber.Ctx) error {
	var questions []model.QuestionModel
	if err := ctrl.DB.Preload("Options").Order("created_at").Find(&questions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}
	return helper.Success(c, "Questions fetched", questions)
}

// GET /api/questions/employee
func (ctrl *QuestionController) EmployeeQuestions(c *fiber.Ctx) error {
	return ctrl.listForAudience(c, model.AudienceEmployee)
}

// GET /api/questions/manager
func (ctrl *QuestionController) ManagerQuestions(c *fiber.Ctx) error {
	return ctrl.listForAudience(c, model.AudienceManager)
}

func (ctrl *QuestionController) listForAudience(c *fiber.Ctx, audience int) error {
	var questions []model.QuestionModel
	err := ctrl.DB.Preload("Options").
		Where("is_active = ? AND authentication_type IN ?", true, []int{audience, model.AudienceBoth}).
		Order("created_at").
		Find(&questions).Error
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch questions")
	}
	return helper.Success(c, "Questions fetched", questions)
}

// POST /api/questions
func (ctrl *QuestionController) Create(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Type == model.QuestionTypeMCQ && len(req.Options) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Multiple choice questions need at least one option")
	}

	question := req.ToModel()
	if err := ctrl.DB.Create(question).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create question")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Question created", question)
}

// PUT /api/questions/:id
func (ctrl *QuestionController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid question id")
	}

	var req dto.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}

	question, err := ctrl.find(id)
	if err != nil {
		return ctrl.notFoundOr500(c, err)
	}
	if err := ctrl.DB.Model(question).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update question")
	}
	return helper.Success(c, "Question updated", question)
}

// DELETE /api/questions/:id
// Deactivates instead of deleting so historical answers keep their text.
func (ctrl *QuestionController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid question id")
	}
	question, err := ctrl.find(id)
	if err != nil {
		return ctrl.notFoundOr500(c, err)
	}
	if err := ctrl.DB.Model(question).Update("is_active", false).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to deactivate question")
	}
	return helper.Success(c, "Question deactivated", nil)
}

// POST /api/questions/:id/options
func (ctrl *QuestionController) AddOption(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid question id")
	}
	question, err := ctrl.find(id)
	if err != nil {
		return ctrl.notFoundOr500(c, err)
	}
	if question.Type != model.QuestionTypeMCQ {
		return helper.Error(c, fiber.StatusBadRequest, "Options only apply to multiple choice questions")
	}

	var req struct {
		OptionDesc string `json:"option_desc" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	option := model.OptionModel{QuestionID: question.ID, OptionDesc: req.OptionDesc}
	if err := ctrl.DB.Create(&option).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to add option")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Option added", option)
}

func (ctrl *QuestionController) find(id uuid.UUID) (*model.QuestionModel, error) {
	var question model.QuestionModel
	err := ctrl.DB.Preload("Options").Where("id = ?", id).First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (ctrl *QuestionController) notFoundOr500(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "Question not found")
	}
	return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch question")
}
