package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/okr/logs/dto"
	"okrhub_backend/internals/features/okr/logs/model"
	okrModel "okrhub_backend/internals/features/okr/okrs/model"
	authService "okrhub_backend/internals/features/users/teamsauth/service"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type ProgressLogController struct {
	DB *gorm.DB
}

func NewProgressLogController(db *gorm.DB) *ProgressLogController {
	return &ProgressLogController{DB: db}
}

// GET /api/logs?okr=&user=
func (ctrl *ProgressLogController) List(c *fiber.Ctx) error {
	query := ctrl.DB.Order("date DESC")
	if raw := c.Query("okr"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
		}
		query = query.Where("okr_id = ?", id)
	}
	if raw := c.Query("user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
		}
		query = query.Where("user_id = ?", id)
	}

	var logs []model.ProgressLogModel
	if err := query.Find(&logs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch progress logs")
	}
	return helper.Success(c, "Progress logs fetched", logs)
}

// POST /api/logs
// Records a progress entry for the caller and rolls the percentage up onto
// the OKR itself.
func (ctrl *ProgressLogController) Create(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}

	var req dto.CreateProgressLogRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	entry := model.ProgressLogModel{
		Date:            req.Date,
		OkrID:           req.OkrID,
		UserID:          profile.ID,
		ProgressPercent: req.ProgressPercent,
		Status:          req.Status,
		ConfidenceLevel: req.ConfidenceLevel,
		Comment:         req.Comment,
		Source:          "manual",
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&okrModel.OKRModel{}).Where("id = ?", req.OkrID).
			Update("progress_percent", req.ProgressPercent).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to record progress")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Progress recorded", entry)
}
