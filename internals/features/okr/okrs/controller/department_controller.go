package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/okr/okrs/dto"
	"okrhub_backend/internals/features/okr/okrs/model"
	helper "okrhub_backend/internals/helpers"
)

type DepartmentController struct {
	DB *gorm.DB
}

func NewDepartmentController(db *gorm.DB) *DepartmentController {
	return &DepartmentController{DB: db}
}

// GET /api/departments
func (ctrl *DepartmentController) List(c *fiber.Ctx) error {
	var departments []model.DepartmentModel
	if err := ctrl.DB.Order("name").Find(&departments).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch departments")
	}
	return helper.Success(c, "Departments fetched", departments)
}

// POST /api/departments
func (ctrl *DepartmentController) Create(c *fiber.Ctx) error {
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	department := model.DepartmentModel{Name: req.Name}
	if err := ctrl.DB.Create(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return helper.Error(c, fiber.StatusConflict, "Department already exists")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create department")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Department created", department)
}

// DELETE /api/departments/:id
func (ctrl *DepartmentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid department id")
	}

	var inUse int64
	if err := ctrl.DB.Model(&model.OKRModel{}).Where("department_id = ?", id).Count(&inUse).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to check department usage")
	}
	if inUse > 0 {
		return helper.Error(c, fiber.StatusConflict, "Department still has OKRs")
	}

	res := ctrl.DB.Where("id = ?", id).Delete(&model.DepartmentModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete department")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Department not found")
	}
	return helper.Success(c, "Department deleted", nil)
}

// GET /api/business-units
func (ctrl *DepartmentController) ListBusinessUnits(c *fiber.Ctx) error {
	var units []model.BusinessUnitModel
	if err := ctrl.DB.Order("name").Find(&units).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch business units")
	}
	return helper.Success(c, "Business units fetched", units)
}

// POST /api/business-units
func (ctrl *DepartmentController) CreateBusinessUnit(c *fiber.Ctx) error {
	var req dto.CreateBusinessUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	unit := model.BusinessUnitModel{Name: req.Name}
	if err := ctrl.DB.Create(&unit).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create business unit")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Business unit created", unit)
}
