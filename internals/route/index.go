package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"okrhub_backend/internals/middlewares"
	authMiddleware "okrhub_backend/internals/middlewares/auth"
	"okrhub_backend/internals/route/details"
)

// SetupRoutes mounts the whole API: a public auth group and the
// JWT-protected application groups.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	// 🔓 public: login, callback, refresh
	details.AuthRoutes(api.Group("/auth", middlewares.AuthRateLimiter()), db)

	// 🔒 everything else requires a valid app token
	protected := api.Group("", authMiddleware.AuthMiddleware(db))
	details.ProfileRoutes(protected, db)
	details.AccessRoutes(protected, db)
	details.WeeklyRoutes(protected, db)
	details.OkrRoutes(protected, db)
}
