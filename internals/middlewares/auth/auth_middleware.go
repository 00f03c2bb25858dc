package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"okrhub_backend/internals/configs"
	authService "okrhub_backend/internals/features/users/teamsauth/service"
	helper "okrhub_backend/internals/helpers"
)

// AuthMiddleware validates the app JWT, rejects blacklisted tokens, and puts
// profile_id / user_upn into locals for the handlers downstream.
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := helper.ExtractBearerToken(c)
		if err != nil {
			return helper.Error(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header")
		}

		blacklisted, err := authService.IsTokenBlacklisted(db, tokenString)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
		}
		if blacklisted {
			return helper.Error(c, fiber.StatusUnauthorized, "Token has been revoked")
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(configs.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid token claims")
		}

		// deactivated profiles lose access immediately, even with a live token
		var active int64
		if err := db.Table("teams_profiles").
			Where("id = ? AND is_active = ?", sub, true).
			Count(&active).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Internal server error")
		}
		if active == 0 {
			return helper.Error(c, fiber.StatusUnauthorized, "Profile is inactive")
		}

		c.Locals("profile_id", sub)
		if upn, ok := claims["upn"].(string); ok {
			c.Locals("user_upn", upn)
		}
		return c.Next()
	}
}
