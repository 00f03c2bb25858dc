package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authModel "okrhub_backend/internals/features/users/teamsauth/model"
	"okrhub_backend/internals/features/weekly/forms/dto"
	"okrhub_backend/internals/features/weekly/forms/model"
	qModel "okrhub_backend/internals/features/weekly/questions/model"
	reviewModel "okrhub_backend/internals/features/weekly/reviews/model"
	helper "okrhub_backend/internals/helpers"
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
	// one in-memory database per test, never a second connection
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&authModel.TeamsProfileModel{},
		&qModel.QuestionModel{},
		&qModel.OptionModel{},
		&model.FormModel{},
		&model.UserAnswerModel{},
		&reviewModel.ManagerReviewModel{},
		&reviewModel.ManagerAnswerModel{},
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
		UserPrincipalName: strings.ToLower(name) + "@example.com",
		ManagerID:         managerTeamsID,
		IsActive:          true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func createDescriptiveQuestion(t *testing.T, db *gorm.DB, text string, audience int) *qModel.QuestionModel {
	t.Helper()
	q := &qModel.QuestionModel{
		QuestionName: text,
		Type:         qModel.QuestionTypeDescriptive,
		AuthType:     audience,
		IsActive:     true,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func TestEnsureWindowCreatesEightMondays(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	user := createProfile(t, db, "Alice", "teams-alice", nil)

	ref := time.Date(2025, 5, 7, 15, 30, 0, 0, time.UTC) // a Wednesday
	created, err := svc.EnsureWindow(user.ID, ref)
	if err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if len(created) != 8 {
		t.Fatalf("created %d forms, want 8", len(created))
	}

	var forms []model.FormModel
	if err := db.Order("entry_date").Find(&forms).Error; err != nil {
		t.Fatalf("list forms: %v", err)
	}
	if len(forms) != 8 {
		t.Fatalf("stored %d forms, want 8", len(forms))
	}

	monday := helper.MondayOf(ref)
	for i, f := range forms {
		want := monday.AddDate(0, 0, 7*(i-3))
		if !helper.SameDate(f.EntryDate, want) {
			t.Errorf("form %d entry_date = %s, want %s", i, f.EntryDate.Format("2006-01-02"), want.Format("2006-01-02"))
		}
		if f.EntryDate.Weekday() != time.Monday {
			t.Errorf("form %d entry_date %s is not a Monday", i, f.EntryDate.Format("2006-01-02"))
		}
		if f.Status != model.FormStatusNotStarted {
			t.Errorf("form %d status = %d, want not started", i, f.Status)
		}
	}
}

func TestEnsureWindowIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	user := createProfile(t, db, "Alice", "teams-alice", nil)

	ref := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, ref); err != nil {
		t.Fatalf("first EnsureWindow: %v", err)
	}
	again, err := svc.EnsureWindow(user.ID, ref)
	if err != nil {
		t.Fatalf("second EnsureWindow: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second call created %d forms, want 0", len(again))
	}

	var count int64
	db.Model(&model.FormModel{}).Count(&count)
	if count != 8 {
		t.Fatalf("total forms = %d, want 8", count)
	}

	// a week later the window slides forward by one Monday
	if _, err := svc.EnsureWindow(user.ID, ref.AddDate(0, 0, 7)); err != nil {
		t.Fatalf("slid EnsureWindow: %v", err)
	}
	db.Model(&model.FormModel{}).Count(&count)
	if count != 9 {
		t.Fatalf("total forms after slide = %d, want 9", count)
	}
}

func TestFutureFormRejectsWrites(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	user := createProfile(t, db, "Alice", "teams-alice", nil)
	q := createDescriptiveQuestion(t, db, "What challenges did you face this week?", qModel.AudienceEmployee)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}

	var future model.FormModel
	nextMonday := helper.MondayOf(today).AddDate(0, 0, 7)
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, nextMonday).First(&future).Error; err != nil {
		t.Fatalf("load future form: %v", err)
	}

	answers := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "too early"}}

	if err := svc.SaveDraft(future.ID, user.ID, answers, today); !errors.Is(err, ErrFutureForm) {
		t.Fatalf("SaveDraft on future form: err = %v, want ErrFutureForm", err)
	}
	if err := svc.Submit(future.ID, user.ID, answers, today); !errors.Is(err, ErrFutureForm) {
		t.Fatalf("Submit on future form: err = %v, want ErrFutureForm", err)
	}
	if err := svc.Resubmit(future.ID, user.ID, answers, today); !errors.Is(err, ErrFutureForm) {
		t.Fatalf("Resubmit on future form: err = %v, want ErrFutureForm", err)
	}

	var answerCount int64
	db.Model(&model.UserAnswerModel{}).Count(&answerCount)
	if answerCount != 0 {
		t.Fatalf("future form stored %d answers, want 0", answerCount)
	}
	var reloaded model.FormModel
	db.First(&reloaded, "id = ?", future.ID)
	if reloaded.Status != model.FormStatusNotStarted {
		t.Fatalf("future form status = %d, want not started", reloaded.Status)
	}
}

func TestSaveDraftMovesNotStartedToInProgress(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	user := createProfile(t, db, "Alice", "teams-alice", nil)
	q := createDescriptiveQuestion(t, db, "What are your priorities for next week?", qModel.AudienceEmployee)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, helper.MondayOf(today)).First(&form).Error; err != nil {
		t.Fatalf("load current form: %v", err)
	}

	answers := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "ship the migration"}}
	if err := svc.SaveDraft(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	var reloaded model.FormModel
	db.First(&reloaded, "id = ?", form.ID)
	if reloaded.Status != model.FormStatusInProgress {
		t.Fatalf("status after draft = %d, want in progress", reloaded.Status)
	}

	// draft again, the status must not regress and answers replace wholesale
	answers[0].AnswerDescription = "ship the migration, then docs"
	if err := svc.SaveDraft(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("second SaveDraft: %v", err)
	}
	var stored []model.UserAnswerModel
	db.Where("form_id = ?", form.ID).Find(&stored)
	if len(stored) != 1 {
		t.Fatalf("answers after second draft = %d, want 1", len(stored))
	}
	if stored[0].AnswerDescription != "ship the migration, then docs" {
		t.Fatalf("answer text = %q, want the updated draft", stored[0].AnswerDescription)
	}
}

func TestValidationFailureLeavesAnswersUntouched(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	user := createProfile(t, db, "Alice", "teams-alice", nil)
	q := createDescriptiveQuestion(t, db, "What challenges did you face this week?", qModel.AudienceEmployee)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, helper.MondayOf(today)).First(&form).Error; err != nil {
		t.Fatalf("load current form: %v", err)
	}

	good := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "a fine answer"}}
	if err := svc.SaveDraft(form.ID, user.ID, good, today); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	tooLong := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: strings.Repeat("x", EmployeeAnswerMaxLen+1)}}
	err := svc.Submit(form.ID, user.ID, tooLong, today)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit with oversized answer: err = %v, want ValidationError", err)
	}
	if len(ve.Violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(ve.Violations))
	}

	var stored []model.UserAnswerModel
	db.Where("form_id = ?", form.ID).Find(&stored)
	if len(stored) != 1 || stored[0].AnswerDescription != "a fine answer" {
		t.Fatalf("failed submit mutated answers: %+v", stored)
	}
	var reloaded model.FormModel
	db.First(&reloaded, "id = ?", form.ID)
	if reloaded.Status != model.FormStatusInProgress {
		t.Fatalf("failed submit changed status to %d", reloaded.Status)
	}
}

func TestValidationCollectsAllViolations(t *testing.T) {
	db := openTestDB(t)
	q := createDescriptiveQuestion(t, db, "What challenges did you face this week?", qModel.AudienceEmployee)

	mcq := &qModel.QuestionModel{
		QuestionName: "How would you rate your productivity this week?",
		Type:         qModel.QuestionTypeMCQ,
		AuthType:     qModel.AudienceEmployee,
		IsActive:     true,
		Options:      []qModel.OptionModel{{OptionDesc: "Low"}, {OptionDesc: "High"}},
	}
	if err := db.Create(mcq).Error; err != nil {
		t.Fatalf("create mcq: %v", err)
	}

	strayOption := uuid.New()
	answers := []dto.AnswerRecord{
		{QuestionID: uuid.New(), AnswerDescription: "unknown question"},
		{QuestionID: q.ID, AnswerDescription: strings.Repeat("y", EmployeeAnswerMaxLen+1)},
		{QuestionID: mcq.ID, OptionID: &strayOption},
	}

	_, err := ValidateAnswers(db, answers, qModel.AudienceEmployee, EmployeeAnswerMaxLen)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(ve.Violations) != 3 {
		t.Fatalf("violations = %d, want 3: %v", len(ve.Violations), ve.Violations)
	}
}

func TestSubmitCreatesExactlyOneReview(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	manager := createProfile(t, db, "Mallory", "teams-mallory", nil)
	user := createProfile(t, db, "Alice", "teams-alice", &manager.TeamsID)
	q := createDescriptiveQuestion(t, db, "What challenges did you face this week?", qModel.AudienceEmployee)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, helper.MondayOf(today)).First(&form).Error; err != nil {
		t.Fatalf("load current form: %v", err)
	}

	answers := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "handover was rough"}}
	if err := svc.Submit(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := svc.Submit(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	var reviews []reviewModel.ManagerReviewModel
	db.Where("form_id = ?", form.ID).Find(&reviews)
	if len(reviews) != 1 {
		t.Fatalf("reviews = %d, want exactly 1", len(reviews))
	}
	if reviews[0].ManagerID != manager.ID {
		t.Fatalf("review manager = %s, want %s", reviews[0].ManagerID, manager.ID)
	}
	if reviews[0].Status != reviewModel.ReviewStatusNotStarted {
		t.Fatalf("review status = %d, want not started", reviews[0].Status)
	}

	var reloaded model.FormModel
	db.First(&reloaded, "id = ?", form.ID)
	if reloaded.Status != model.FormStatusSubmitted {
		t.Fatalf("form status = %d, want submitted", reloaded.Status)
	}
}

func TestSubmitWithoutLocalManagerSkipsReview(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	ghost := "teams-nobody"
	user := createProfile(t, db, "Alice", "teams-alice", &ghost)
	q := createDescriptiveQuestion(t, db, "What challenges did you face this week?", qModel.AudienceEmployee)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, helper.MondayOf(today)).First(&form).Error; err != nil {
		t.Fatalf("load current form: %v", err)
	}

	answers := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "fine"}}
	if err := svc.Submit(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	var count int64
	db.Model(&reviewModel.ManagerReviewModel{}).Count(&count)
	if count != 0 {
		t.Fatalf("reviews = %d, want 0 when the manager has no local profile", count)
	}
}

func TestResubmitResetsCompletedReview(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	manager := createProfile(t, db, "Mallory", "teams-mallory", nil)
	user := createProfile(t, db, "Alice", "teams-alice", &manager.TeamsID)
	q := createDescriptiveQuestion(t, db, "What challenges did you face this week?", qModel.AudienceEmployee)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, helper.MondayOf(today)).First(&form).Error; err != nil {
		t.Fatalf("load current form: %v", err)
	}

	answers := []dto.AnswerRecord{{QuestionID: q.ID, AnswerDescription: "first pass"}}
	if err := svc.Submit(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := db.Model(&reviewModel.ManagerReviewModel{}).
		Where("form_id = ?", form.ID).
		Update("status", reviewModel.ReviewStatusCompleted).Error; err != nil {
		t.Fatalf("complete review: %v", err)
	}

	answers[0].AnswerDescription = "second pass"
	if err := svc.Resubmit(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("Resubmit: %v", err)
	}

	var reviews []reviewModel.ManagerReviewModel
	db.Where("form_id = ?", form.ID).Find(&reviews)
	if len(reviews) != 1 {
		t.Fatalf("reviews after resubmit = %d, want 1", len(reviews))
	}
	if reviews[0].Status != reviewModel.ReviewStatusNotStarted {
		t.Fatalf("review status after resubmit = %d, want not started", reviews[0].Status)
	}

	var stored []model.UserAnswerModel
	db.Where("form_id = ?", form.ID).Find(&stored)
	if len(stored) != 1 || stored[0].AnswerDescription != "second pass" {
		t.Fatalf("resubmit did not replace answers: %+v", stored)
	}
}

func TestGetFormScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	alice := createProfile(t, db, "Alice", "teams-alice", nil)
	bob := createProfile(t, db, "Bob", "teams-bob", nil)

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(alice.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ?", alice.ID).First(&form).Error; err != nil {
		t.Fatalf("load form: %v", err)
	}

	if _, err := svc.GetForm(form.ID, bob.ID); !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("GetForm as non-owner: err = %v, want ErrFormNotFound", err)
	}
}

func TestSubmittedAnswersRoundTripThroughGetFillable(t *testing.T) {
	db := openTestDB(t)
	svc := NewFormService(db)
	user := createProfile(t, db, "Alice", "teams-alice", nil)

	descriptive := createDescriptiveQuestion(t, db, "What did you accomplish this week?", qModel.AudienceEmployee)
	mcq := &qModel.QuestionModel{
		QuestionName: "How would you rate your productivity this week?",
		Type:         qModel.QuestionTypeMCQ,
		AuthType:     qModel.AudienceEmployee,
		IsActive:     true,
	}
	if err := db.Create(mcq).Error; err != nil {
		t.Fatalf("create mcq: %v", err)
	}
	option := &qModel.OptionModel{QuestionID: mcq.ID, OptionDesc: "High"}
	if err := db.Create(option).Error; err != nil {
		t.Fatalf("create option: %v", err)
	}

	today := time.Date(2025, 5, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.EnsureWindow(user.ID, today); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	var form model.FormModel
	if err := db.Where("user_id = ? AND entry_date = ?", user.ID, helper.MondayOf(today)).First(&form).Error; err != nil {
		t.Fatalf("load current form: %v", err)
	}

	answers := []dto.AnswerRecord{
		{QuestionID: descriptive.ID, AnswerDescription: "closed out the quarterly review"},
		{QuestionID: mcq.ID, OptionID: &option.ID},
	}
	if err := svc.Submit(form.ID, user.ID, answers, today); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	fillable, err := svc.GetFillable(form.ID, user.ID, today)
	if err != nil {
		t.Fatalf("GetFillable: %v", err)
	}
	if len(fillable.Answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(fillable.Answers))
	}

	// what was written comes back with the same question/option/text pairing
	byQuestion := make(map[uuid.UUID]model.UserAnswerModel, len(fillable.Answers))
	for _, a := range fillable.Answers {
		byQuestion[a.QuestionID] = a
	}
	got, ok := byQuestion[descriptive.ID]
	if !ok || got.AnswerDescription != "closed out the quarterly review" || got.OptionID != nil {
		t.Errorf("descriptive answer did not round-trip: %+v", got)
	}
	got, ok = byQuestion[mcq.ID]
	if !ok || got.OptionID == nil || *got.OptionID != option.ID || got.AnswerDescription != "" {
		t.Errorf("option answer did not round-trip: %+v", got)
	}

	// the question set comes back too, options attached to the MCQ
	var mcqBack *qModel.QuestionModel
	for i := range fillable.Questions {
		if fillable.Questions[i].ID == mcq.ID {
			mcqBack = &fillable.Questions[i]
		}
	}
	if mcqBack == nil || len(mcqBack.Options) != 1 || mcqBack.Options[0].ID != option.ID {
		t.Errorf("mcq question/options missing from fillable view: %+v", mcqBack)
	}
}
