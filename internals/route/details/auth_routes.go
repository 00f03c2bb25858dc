package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "okrhub_backend/internals/features/users/teamsauth/controller"
	authMiddleware "okrhub_backend/internals/middlewares/auth"
)

// AuthRoutes — public login surface, rate limited by the caller.
func AuthRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	r.Post("/teams", ctrl.TeamsLogin)
	r.Post("/microsoft/callback", ctrl.Callback)
	r.Post("/refresh-token", ctrl.Refresh)

	// these two need the token they act on
	r.Get("/me", authMiddleware.AuthMiddleware(db), authController.NewProfileController(db).Me)
	r.Post("/logout", authMiddleware.AuthMiddleware(db), ctrl.Logout)
}

// ProfileRoutes — the directory read surface plus admin deactivation.
func ProfileRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := authController.NewProfileController(db)

	profiles := r.Group("/profiles")
	profiles.Get("/me", ctrl.Me)
	profiles.Post("/me/sync", ctrl.SyncMe)
	profiles.Get("/", ctrl.List)
	profiles.Get("/:id", ctrl.Detail)
	profiles.Delete("/:id", ctrl.Deactivate)
}
