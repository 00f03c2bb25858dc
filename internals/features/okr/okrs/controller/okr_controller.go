package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/okr/okrs/dto"
	"okrhub_backend/internals/features/okr/okrs/model"
	"okrhub_backend/internals/features/okr/okrs/service"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type OKRController struct {
	DB      *gorm.DB
	Service *service.OKRService
}

func NewOKRController(db *gorm.DB) *OKRController {
	return &OKRController{DB: db, Service: service.NewOKRService(db)}
}

// GET /api/okrs?department=&user=&active=
func (ctrl *OKRController) List(c *fiber.Ctx) error {
	var departmentID, userID *uuid.UUID
	if raw := c.Query("department"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid department id")
		}
		departmentID = &id
	}
	if raw := c.Query("user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
		}
		userID = &id
	}

	okrs, err := ctrl.Service.List(departmentID, userID, c.Query("active") == "true")
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch OKRs")
	}
	return helper.Success(c, "OKRs fetched", okrs)
}

// GET /api/okrs/:id
func (ctrl *OKRController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}
	okr, err := ctrl.Service.Get(id)
	if err != nil {
		return okrError(c, err)
	}
	return helper.Success(c, "OKR fetched", okr)
}

// POST /api/okrs
func (ctrl *OKRController) Create(c *fiber.Ctx) error {
	var req dto.CreateOKRRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.DueDate.Before(req.StartDate) {
		return helper.Error(c, fiber.StatusBadRequest, "Due date cannot precede start date")
	}

	okr, err := ctrl.Service.Create(req)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create OKR")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "OKR created", okr)
}

// PUT /api/okrs/:id
func (ctrl *OKRController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}

	var req dto.UpdateOKRRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.StartDate != nil && req.DueDate != nil && req.DueDate.Before(*req.StartDate) {
		return helper.Error(c, fiber.StatusBadRequest, "Due date cannot precede start date")
	}

	okr, err := ctrl.Service.Update(id, req.Updates())
	if err != nil {
		return okrError(c, err)
	}
	return helper.Success(c, "OKR updated", okr)
}

// DELETE /api/okrs/:id
func (ctrl *OKRController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}
	if err := ctrl.Service.Delete(id); err != nil {
		return okrError(c, err)
	}
	return helper.Success(c, "OKR deleted", nil)
}

// POST /api/okrs/:id/assign-users
func (ctrl *OKRController) AssignUsers(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}
	var req dto.AssignUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	okr, err := ctrl.Service.AssignUsers(id, req.UserIDs, req.PrimaryUserID)
	if err != nil {
		return okrError(c, err)
	}
	return helper.Success(c, "OKR users updated", okr)
}

// POST /api/okrs/:id/assign-business-units
func (ctrl *OKRController) AssignBusinessUnits(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}
	var req dto.AssignBusinessUnitsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	okr, err := ctrl.Service.AssignBusinessUnits(id, req.BusinessUnitIDs)
	if err != nil {
		return okrError(c, err)
	}
	return helper.Success(c, "OKR business units updated", okr)
}

// GET /api/okrs/:id/assigned-users
func (ctrl *OKRController) AssignedUsers(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}
	if _, err := ctrl.Service.Get(id); err != nil {
		return okrError(c, err)
	}

	var mappings []model.OkrUserMappingModel
	if err := ctrl.DB.Where("okr_id = ?", id).Order("is_primary DESC").Find(&mappings).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch assigned users")
	}
	return helper.Success(c, "Assigned users fetched", mappings)
}

// GET /api/okrs/:id/business-units
func (ctrl *OKRController) BusinessUnitsOf(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
	}
	if _, err := ctrl.Service.Get(id); err != nil {
		return okrError(c, err)
	}

	var mappings []model.BusinessUnitOKRMappingModel
	if err := ctrl.DB.Where("okr_id = ?", id).Find(&mappings).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch business units")
	}
	return helper.Success(c, "Business units fetched", mappings)
}

// GET /api/okr-user-mappings?okr_id=&user_id=
func (ctrl *OKRController) ListUserMappings(c *fiber.Ctx) error {
	query := ctrl.DB.Order("created_at")
	if raw := c.Query("okr_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
		}
		query = query.Where("okr_id = ?", id)
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
		}
		query = query.Where("user_id = ?", id)
	}

	var mappings []model.OkrUserMappingModel
	if err := query.Find(&mappings).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch mappings")
	}
	return helper.Success(c, "Mappings fetched", mappings)
}

func okrError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrOKRNotFound) {
		return helper.Error(c, fiber.StatusNotFound, "OKR not found")
	}
	return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
}
