package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	accessController "okrhub_backend/internals/features/users/access/controller"
)

func AccessRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := accessController.NewAccessController(db)

	access := r.Group("/access")
	access.Get("/check", ctrl.MyAccess)
	access.Post("/:teams_id", ctrl.UpdateAccess)
}
