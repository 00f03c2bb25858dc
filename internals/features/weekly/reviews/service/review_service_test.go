package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authModel "okrhub_backend/internals/features/users/teamsauth/model"
	formDTO "okrhub_backend/internals/features/weekly/forms/dto"
	formModel "okrhub_backend/internals/features/weekly/forms/model"
	qModel "okrhub_backend/internals/features/weekly/questions/model"
	"okrhub_backend/internals/features/weekly/reviews/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&authModel.TeamsProfileModel{},
		&qModel.QuestionModel{},
		&qModel.OptionModel{},
		&formModel.FormModel{},
		&formModel.UserAnswerModel{},
		&model.ManagerReviewModel{},
		&model.ManagerAnswerModel{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createProfile(t *testing.T, db *gorm.DB, name, teamsID string, managerTeamsID *string) *authModel.TeamsProfileModel {
	t.Helper()
	p := &authModel.TeamsProfileModel{
		TeamsID:           teamsID,
		UserName:          name,
		UserPrincipalName: name + "@example.com",
		ManagerID:         managerTeamsID,
		IsActive:          true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func createForm(t *testing.T, db *gorm.DB, owner *authModel.TeamsProfileModel, entryDate time.Time, status int) *formModel.FormModel {
	t.Helper()
	f := &formModel.FormModel{UserID: owner.ID, EntryDate: entryDate, Status: status}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("create form: %v", err)
	}
	return f
}

func createManagerQuestion(t *testing.T, db *gorm.DB, text string) *qModel.QuestionModel {
	t.Helper()
	q := &qModel.QuestionModel{
		QuestionName: text,
		Type:         qModel.QuestionTypeDescriptive,
		AuthType:     qModel.AudienceManager,
		IsActive:     true,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func TestTeamMetrics(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)
	bob := createProfile(t, db, "bob", "teams-bob", &manager.TeamsID)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

	// 5 past weeks each: alice submits 4, bob submits 2, 10 forms total
	var forms []formModel.FormModel
	for i := 0; i < 5; i++ {
		week := monday.AddDate(0, 0, -7*i)
		aliceStatus := formModel.FormStatusSubmitted
		if i == 4 {
			aliceStatus = formModel.FormStatusInProgress
		}
		bobStatus := formModel.FormStatusNotStarted
		if i < 2 {
			bobStatus = formModel.FormStatusSubmitted
		}
		forms = append(forms, *createForm(t, db, alice, week, aliceStatus))
		forms = append(forms, *createForm(t, db, bob, week, bobStatus))
	}

	// reviews for every submitted form, 4 completed out of 6
	if _, err := svc.EnsureReviews(manager.ID, forms); err != nil {
		t.Fatalf("EnsureReviews: %v", err)
	}
	var reviews []model.ManagerReviewModel
	if err := db.Order("created_at").Find(&reviews).Error; err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 6 {
		t.Fatalf("reviews = %d, want 6", len(reviews))
	}
	for i := 0; i < 4; i++ {
		if err := db.Model(&reviews[i]).Update("status", model.ReviewStatusCompleted).Error; err != nil {
			t.Fatalf("complete review: %v", err)
		}
	}

	metrics, err := svc.TeamMetrics(manager, today)
	if err != nil {
		t.Fatalf("TeamMetrics: %v", err)
	}
	if metrics.TotalForms != 10 {
		t.Errorf("total_forms = %d, want 10", metrics.TotalForms)
	}
	if metrics.CompletedForms != 6 {
		t.Errorf("completed_forms = %d, want 6", metrics.CompletedForms)
	}
	if metrics.CompletionRate != 60.0 {
		t.Errorf("completion_rate = %v, want 60.0", metrics.CompletionRate)
	}
	if metrics.CompletedReviews != 4 {
		t.Errorf("completed_reviews = %d, want 4", metrics.CompletedReviews)
	}
	if metrics.PendingReviews != 2 {
		t.Errorf("pending_reviews = %d, want 2", metrics.PendingReviews)
	}
}

func TestTeamMetricsExcludesFutureForms(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	createForm(t, db, alice, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), formModel.FormStatusSubmitted)
	createForm(t, db, alice, time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC), formModel.FormStatusNotStarted)
	createForm(t, db, alice, time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC), formModel.FormStatusNotStarted)

	metrics, err := svc.TeamMetrics(manager, today)
	if err != nil {
		t.Fatalf("TeamMetrics: %v", err)
	}
	if metrics.TotalForms != 1 {
		t.Errorf("total_forms = %d, want 1 (future weeks excluded)", metrics.TotalForms)
	}
	if metrics.CompletionRate != 100.0 {
		t.Errorf("completion_rate = %v, want 100.0", metrics.CompletionRate)
	}
}

func TestTeamMetricsRoundsToOneDecimal(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)

	monday := time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		status := formModel.FormStatusNotStarted
		if i == 0 {
			status = formModel.FormStatusSubmitted
		}
		createForm(t, db, alice, monday.AddDate(0, 0, -7*i), status)
	}

	metrics, err := svc.TeamMetrics(manager, time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("TeamMetrics: %v", err)
	}
	// 1/3 → 33.333…, rounded to one decimal
	if metrics.CompletionRate != 33.3 {
		t.Errorf("completion_rate = %v, want 33.3", metrics.CompletionRate)
	}
}

func TestSubmitReviewRequiresAuthorization(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	outsider := createProfile(t, db, "oscar", "teams-oscar", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)
	form := createForm(t, db, alice, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), formModel.FormStatusSubmitted)
	q := createManagerQuestion(t, db, "What is your assessment of the team member's performance this week?")

	answers := []formDTO.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "solid week"}}

	if err := svc.SubmitReview(form.ID, outsider, answers, "nope"); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("outsider SubmitReview: err = %v, want ErrNotAuthorized", err)
	}
	if _, err := svc.GetReviewDetail(form.ID, outsider); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("outsider GetReviewDetail: err = %v, want ErrNotAuthorized", err)
	}

	var count int64
	db.Model(&model.ManagerReviewModel{}).Count(&count)
	if count != 0 {
		t.Fatalf("unauthorized access created %d reviews", count)
	}
}

func TestPreexistingReviewAuthorizesFormerManager(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	former := createProfile(t, db, "frank", "teams-frank", nil)
	current := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &current.TeamsID)
	form := createForm(t, db, alice, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), formModel.FormStatusSubmitted)
	createManagerQuestion(t, db, "What feedback and suggestions would you give to improve?")

	// a review recorded while frank still managed alice
	review := model.ManagerReviewModel{FormID: form.ID, ManagerID: former.ID, Status: model.ReviewStatusNotStarted}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("create review: %v", err)
	}

	if _, err := svc.GetReviewDetail(form.ID, former); err != nil {
		t.Fatalf("former manager with existing review should stay authorized, got %v", err)
	}
}

func TestSubmitReviewCompletesAndCopiesSummary(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)
	form := createForm(t, db, alice, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), formModel.FormStatusSubmitted)
	q := createManagerQuestion(t, db, "What is your assessment of the team member's performance this week?")

	answers := []formDTO.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "delivered the migration ahead of plan"}}
	if err := svc.SubmitReview(form.ID, manager, answers, "strong week overall"); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	var review model.ManagerReviewModel
	if err := db.Where("form_id = ? AND manager_id = ?", form.ID, manager.ID).First(&review).Error; err != nil {
		t.Fatalf("load review: %v", err)
	}
	if review.Status != model.ReviewStatusCompleted {
		t.Errorf("review status = %d, want completed", review.Status)
	}
	if review.SummaryComments != "strong week overall" {
		t.Errorf("summary = %q", review.SummaryComments)
	}

	var stored []model.ManagerAnswerModel
	db.Where("review_id = ?", review.ID).Find(&stored)
	if len(stored) != 1 {
		t.Fatalf("manager answers = %d, want 1", len(stored))
	}

	var reloaded formModel.FormModel
	db.First(&reloaded, "id = ?", form.ID)
	if reloaded.ManagerReview != "strong week overall" {
		t.Errorf("form.manager_review = %q, want the summary copied over", reloaded.ManagerReview)
	}

	// resubmitting the review replaces answers rather than stacking them
	answers[0].AnswerDescription = "revised assessment"
	if err := svc.SubmitReview(form.ID, manager, answers, "updated summary"); err != nil {
		t.Fatalf("second SubmitReview: %v", err)
	}
	db.Where("review_id = ?", review.ID).Find(&stored)
	if len(stored) != 1 || stored[0].AnswerDescription != "revised assessment" {
		t.Fatalf("review resubmission did not replace answers: %+v", stored)
	}
}

func TestSubmitReviewCopiesSummaryLongerThanEmployeeLimit(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)
	form := createForm(t, db, alice, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), formModel.FormStatusSubmitted)
	q := createManagerQuestion(t, db, "What is your assessment of the team member's performance this week?")

	// manager summaries may run to 500 chars, well past the 250-char employee
	// answer limit; the denormalized copy on the form must hold all of it
	summary := strings.Repeat("x", 400)
	answers := []formDTO.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "fine"}}
	if err := svc.SubmitReview(form.ID, manager, answers, summary); err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}

	var review model.ManagerReviewModel
	if err := db.Where("form_id = ? AND manager_id = ?", form.ID, manager.ID).First(&review).Error; err != nil {
		t.Fatalf("load review: %v", err)
	}
	if review.SummaryComments != summary {
		t.Errorf("summary truncated: len=%d, want 400", len(review.SummaryComments))
	}

	var reloaded formModel.FormModel
	db.First(&reloaded, "id = ?", form.ID)
	if reloaded.ManagerReview != summary {
		t.Errorf("form.manager_review truncated: len=%d, want 400", len(reloaded.ManagerReview))
	}
}

func TestTeamMemberFormsCreatesPendingReviews(t *testing.T) {
	db := openTestDB(t)
	svc := NewReviewService(db)

	manager := createProfile(t, db, "mallory", "teams-mallory", nil)
	alice := createProfile(t, db, "alice", "teams-alice", &manager.TeamsID)
	createProfile(t, db, "oscar", "teams-oscar", nil) // not on the team

	createForm(t, db, alice, time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC), formModel.FormStatusSubmitted)
	createForm(t, db, alice, time.Date(2025, 4, 28, 0, 0, 0, 0, time.UTC), formModel.FormStatusInProgress)

	forms, err := svc.TeamMemberForms(manager)
	if err != nil {
		t.Fatalf("TeamMemberForms: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("forms = %d, want 2", len(forms))
	}

	var count int64
	db.Model(&model.ManagerReviewModel{}).Count(&count)
	if count != 1 {
		t.Fatalf("reviews = %d, want 1 (submitted forms only)", count)
	}
}
