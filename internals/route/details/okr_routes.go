package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	logController "okrhub_backend/internals/features/okr/logs/controller"
	okrController "okrhub_backend/internals/features/okr/okrs/controller"
	taskController "okrhub_backend/internals/features/okr/tasks/controller"
	accessController "okrhub_backend/internals/features/users/access/controller"
	accessModel "okrhub_backend/internals/features/users/access/model"
)

func OkrRoutes(r fiber.Router, db *gorm.DB) {
	okrs := okrController.NewOKRController(db)
	departments := okrController.NewDepartmentController(db)
	tasks := taskController.NewTaskController(db)
	logs := logController.NewProgressLogController(db)

	canAddObjective := accessController.RequireCapability(db, accessModel.AccessAddObjective)
	adminOnly := accessController.RequireCapability(db, accessModel.AccessAdminMaster)

	o := r.Group("/okrs")
	o.Get("/", okrs.List)
	o.Get("/:id", okrs.Detail)
	o.Post("/", canAddObjective, okrs.Create)
	o.Put("/:id", canAddObjective, okrs.Update)
	o.Delete("/:id", canAddObjective, okrs.Delete)
	o.Get("/:id/assigned-users", okrs.AssignedUsers)
	o.Get("/:id/business-units", okrs.BusinessUnitsOf)
	o.Post("/:id/assign-users", canAddObjective, okrs.AssignUsers)
	o.Post("/:id/assign-business-units", canAddObjective, okrs.AssignBusinessUnits)

	r.Get("/okr-user-mappings", okrs.ListUserMappings)

	d := r.Group("/departments")
	d.Get("/", departments.List)
	d.Post("/", adminOnly, departments.Create)
	d.Delete("/:id", adminOnly, departments.Delete)

	bu := r.Group("/business-units")
	bu.Get("/", departments.ListBusinessUnits)
	bu.Post("/", adminOnly, departments.CreateBusinessUnit)

	t := r.Group("/tasks")
	t.Get("/", tasks.List)
	t.Get("/:id", tasks.Detail)
	t.Post("/", tasks.Create)
	t.Put("/:id", tasks.Update)
	t.Delete("/:id", tasks.Delete)

	tc := r.Group("/task-challenges")
	tc.Get("/", tasks.ListChallenges)
	tc.Get("/by-task/:task_id", tasks.ChallengesByTask)
	tc.Post("/", tasks.CreateChallenge)
	tc.Put("/:id", tasks.UpdateChallenge)
	tc.Delete("/:id", tasks.DeleteChallenge)

	l := r.Group("/logs")
	l.Get("/", logs.List)
	l.Post("/", logs.Create)
}
