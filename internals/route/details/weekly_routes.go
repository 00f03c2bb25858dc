package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	accessController "okrhub_backend/internals/features/users/access/controller"
	accessModel "okrhub_backend/internals/features/users/access/model"
	formController "okrhub_backend/internals/features/weekly/forms/controller"
	questionController "okrhub_backend/internals/features/weekly/questions/controller"
	reviewController "okrhub_backend/internals/features/weekly/reviews/controller"
)

// WeeklyRoutes — the employee form surface, the manager review surface, and
// the admin question catalog.
func WeeklyRoutes(r fiber.Router, db *gorm.DB) {
	forms := formController.NewFormController(db)
	reviews := reviewController.NewReviewController(db)
	questions := questionController.NewQuestionController(db)

	wf := r.Group("/weekly-forms")
	wf.Get("/", forms.MyForms)

	// manager side; fixed paths registered before the :id routes
	wf.Get("/team-members", reviews.TeamMembers)
	wf.Get("/team-member-forms", reviews.TeamMemberForms)
	wf.Get("/team-metrics", reviews.TeamMetrics)

	wf.Get("/:id/questions", forms.Questions)
	wf.Post("/:id/draft", forms.SaveDraft)
	wf.Post("/:id/submit", forms.Submit)
	wf.Post("/:id/resubmit", forms.Resubmit)
	wf.Get("/:id/review", reviews.ReviewDetails)
	wf.Post("/:id/review", reviews.SubmitReview)

	q := r.Group("/questions")
	q.Get("/employee", questions.EmployeeQuestions)
	q.Get("/manager", questions.ManagerQuestions)

	// catalog management is admin only
	admin := q.Group("", accessController.RequireCapability(db, accessModel.AccessAdminMaster))
	admin.Get("/", questions.List)
	admin.Post("/", questions.Create)
	admin.Put("/:id", questions.Update)
	admin.Delete("/:id", questions.Deactivate)
	admin.Post("/:id/options", questions.AddOption)
}
