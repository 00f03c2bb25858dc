package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/users/teamsauth/dto"
	"okrhub_backend/internals/features/users/teamsauth/service"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// POST /api/auth/teams
// Teams SSO entry point: the client hands over its Graph token, we validate it
// against Graph, upsert the profile (manager link included), and answer with
// our own token pair.
func (ctrl *AuthController) TeamsLogin(c *fiber.Ctx) error {
	var req dto.TeamsAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	return ctrl.login(c, req.Token, "", 0)
}

// POST /api/auth/callback
// Browser OAuth variant: the frontend already exchanged the code and posts the
// Microsoft tokens here so we can cache them for Graph calls later.
func (ctrl *AuthController) Callback(c *fiber.Ctx) error {
	var req dto.CallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	return ctrl.login(c, req.AccessToken, req.RefreshToken, req.ExpiresIn)
}

func (ctrl *AuthController) login(c *fiber.Ctx, graphToken, graphRefresh string, expiresIn int) error {
	user, rawPayload, err := service.ValidateTeamsToken(graphToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGraphToken) {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid Microsoft token")
		}
		log.Printf("[ERROR] graph validation failed: %v", err)
		return helper.Error(c, fiber.StatusBadGateway, "Microsoft Graph is unavailable")
	}

	manager, err := service.GetManagerInfo(user.ID, graphToken)
	if err != nil {
		// a missing manager lookup never blocks login
		log.Printf("[WARN] manager lookup failed for %s: %v", user.Email(), err)
	}

	profile, err := service.UpsertFromGraph(ctrl.DB, user, manager, rawPayload)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to save profile")
	}

	if graphRefresh != "" || expiresIn > 0 {
		if err := profile.UpdateTokens(ctrl.DB, graphToken, graphRefresh, expiresIn); err != nil {
			log.Printf("[WARN] failed to cache graph tokens for %s: %v", profile.UserPrincipalName, err)
		}
	}

	pair, err := service.IssueTokenPair(profile)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to issue tokens")
	}

	return helper.Success(c, "Login successful", dto.AuthResponse{
		Tokens: *pair,
		User:   dto.NewProfileResponse(profile),
	})
}

// POST /api/auth/refresh
func (ctrl *AuthController) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	pair, profile, err := service.RotateTokenPair(ctrl.DB, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid refresh token")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to refresh tokens")
	}

	return helper.Success(c, "Token refreshed", dto.AuthResponse{
		Tokens: *pair,
		User:   dto.NewProfileResponse(profile),
	})
}

// POST /api/auth/logout
// Blacklists the presented access token so it dies before its natural expiry.
func (ctrl *AuthController) Logout(c *fiber.Ctx) error {
	token, err := helper.ExtractBearerToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Missing token")
	}

	claims := jwt.MapClaims{}
	// expiry only, signature was already checked by the middleware
	_, _, parseErr := jwt.NewParser().ParseUnverified(token, claims)
	if parseErr != nil {
		claims = jwt.MapClaims{}
	}

	if err := service.BlacklistToken(ctrl.DB, token, claims); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to log out")
	}
	return helper.Success(c, "Logged out", nil)
}
