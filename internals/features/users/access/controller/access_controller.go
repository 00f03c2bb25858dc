package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/users/access/dto"
	"okrhub_backend/internals/features/users/access/model"
	"okrhub_backend/internals/features/users/access/service"
	authService "okrhub_backend/internals/features/users/teamsauth/service"
	helper "okrhub_backend/internals/helpers"
)

type AccessController struct {
	DB      *gorm.DB
	Service *service.AccessService
}

func NewAccessController(db *gorm.DB) *AccessController {
	return &AccessController{DB: db, Service: service.NewAccessService(db)}
}

// GET /api/access/check
func (ctrl *AccessController) MyAccess(c *fiber.Ctx) error {
	profile, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	flags, err := ctrl.Service.Flags(profile.ID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch access flags")
	}
	return helper.Success(c, "Access flags fetched", flags)
}

// POST /api/access/:teams_id
// Admin-only wholesale replacement of a user's capability set. The target is
// addressed by directory id so admins can paste it straight from Teams.
func (ctrl *AccessController) UpdateAccess(c *fiber.Ctx) error {
	caller, err := authService.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	isAdmin, err := ctrl.Service.HasCapability(caller.ID, model.AccessAdminMaster)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to check access")
	}
	if !isAdmin {
		return helper.Error(c, fiber.StatusForbidden, "Admin access required")
	}

	target, err := authService.GetProfileByTeamsID(ctrl.DB, c.Params("teams_id"))
	if err != nil {
		if errors.Is(err, authService.ErrProfileNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User profile not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch profile")
	}

	var req dto.UpdateAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}

	if err := ctrl.Service.Replace(target.ID, req); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update access")
	}

	flags, err := ctrl.Service.Flags(target.ID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch access flags")
	}
	return helper.Success(c, "Access updated", flags)
}

// RequireCapability guards a route group behind one capability.
func RequireCapability(db *gorm.DB, accessID int) fiber.Handler {
	svc := service.NewAccessService(db)
	return func(c *fiber.Ctx) error {
		profile, err := authService.GetCurrentProfile(db, c)
		if err != nil {
			return helper.Error(c, fiber.StatusNotFound, "User profile not found")
		}
		ok, err := svc.HasCapability(profile.ID, accessID)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to check access")
		}
		if !ok {
			return helper.Error(c, fiber.StatusForbidden, "You do not have access to this resource")
		}
		return c.Next()
	}
}
