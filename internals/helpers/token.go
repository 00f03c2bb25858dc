package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var ErrNoProfileInToken = errors.New("no profile id in token")

// GetProfileIDFromToken reads the profile id the auth middleware stored in locals.
func GetProfileIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("profile_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, ErrNoProfileInToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrNoProfileInToken
	}
	return id, nil
}

// GetPrincipalFromToken reads the caller's user principal name (email), if present.
func GetPrincipalFromToken(c *fiber.Ctx) string {
	upn, _ := c.Locals("user_upn").(string)
	return strings.TrimSpace(upn)
}

// ExtractBearerToken pulls the raw JWT out of the Authorization header,
// falling back to the access_token cookie.
func ExtractBearerToken(c *fiber.Ctx) (string, error) {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(authHeader, "Bearer ") {
		tok := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tok != "" {
			return tok, nil
		}
	}
	if tok := strings.TrimSpace(c.Cookies("access_token")); tok != "" {
		return tok, nil
	}
	return "", errors.New("missing Authorization header")
}
