package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/users/teamsauth/dto"
	"okrhub_backend/internals/features/users/teamsauth/service"
	helper "okrhub_backend/internals/helpers"
)

type ProfileController struct {
	DB *gorm.DB
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{DB: db}
}

// GET /api/profiles/me
func (ctrl *ProfileController) Me(c *fiber.Ctx) error {
	profile, err := service.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	return helper.Success(c, "Profile fetched", dto.NewProfileResponse(profile))
}

// POST /api/profiles/me/sync
// Refreshes the caller's profile from Graph using the cached Microsoft tokens.
func (ctrl *ProfileController) SyncMe(c *fiber.Ctx) error {
	profile, err := service.GetCurrentProfile(ctrl.DB, c)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User profile not found")
	}
	synced, err := service.SyncFromGraph(ctrl.DB, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoGraphToken), errors.Is(err, service.ErrInvalidGraphToken):
			return helper.Error(c, fiber.StatusUnauthorized, "Microsoft session expired, sign in again")
		case errors.Is(err, service.ErrGraphUnavailable):
			return helper.Error(c, fiber.StatusBadGateway, "Microsoft Graph unavailable")
		default:
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to sync profile")
		}
	}
	return helper.Success(c, "Profile synced", dto.NewProfileResponse(synced))
}

// GET /api/profiles?search=&page=&per_page=
func (ctrl *ProfileController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 25, 100)
	search := strings.TrimSpace(c.Query("search"))

	profiles, total, err := service.ListProfiles(ctrl.DB, search, paging.Limit, paging.Offset)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch profiles")
	}

	out := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, dto.NewProfileResponse(&profiles[i]))
	}
	return helper.Success(c, "Profiles fetched", fiber.Map{
		"profiles":   out,
		"pagination": helper.BuildPagination(total, paging, len(out)),
	})
}

// GET /api/profiles/:id
func (ctrl *ProfileController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid profile id")
	}
	profile, err := service.GetProfileByID(ctrl.DB, id)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User profile not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch profile")
	}
	return helper.Success(c, "Profile fetched", dto.NewProfileResponse(profile))
}

// DELETE /api/profiles/:id
// Soft-deactivate: the profile drops out of login and team listings but its
// history stays.
func (ctrl *ProfileController) Deactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid profile id")
	}
	if err := service.DeactivateProfile(ctrl.DB, id); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "User profile not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to deactivate profile")
	}
	return helper.Success(c, "Profile deactivated", nil)
}
