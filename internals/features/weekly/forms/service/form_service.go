package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "okrhub_backend/internals/features/users/teamsauth/model"
	"okrhub_backend/internals/features/weekly/forms/dto"
	"okrhub_backend/internals/features/weekly/forms/model"
	qModel "okrhub_backend/internals/features/weekly/questions/model"
	reviewModel "okrhub_backend/internals/features/weekly/reviews/model"
	helper "okrhub_backend/internals/helpers"
)

var (
	ErrFormNotFound = errors.New("form not found")
	ErrFutureForm   = errors.New("cannot fill forms for future weeks")
)

// How far the rolling window reaches around the current week.
const (
	windowWeeksBack    = 3
	windowWeeksForward = 4
)

// FormService drives the weekly form lifecycle: window generation, fill,
// draft, submit and resubmit.
type FormService struct {
	DB *gorm.DB
}

func NewFormService(db *gorm.DB) *FormService {
	return &FormService{DB: db}
}

// EnsureWindow guarantees forms exist for the 3 weeks before through 4 weeks
// after the Monday of ref's week, 8 in total. Only missing weeks are inserted;
// the (user, entry_date) unique index plus ON CONFLICT DO NOTHING make this
// idempotent and safe under concurrent callers. Returns the inserted forms.
func (s *FormService) EnsureWindow(userID uuid.UUID, ref time.Time) ([]model.FormModel, error) {
	monday := helper.MondayOf(ref)

	weeks := make([]time.Time, 0, windowWeeksBack+windowWeeksForward+1)
	for i := -windowWeeksBack; i <= windowWeeksForward; i++ {
		weeks = append(weeks, monday.AddDate(0, 0, 7*i))
	}

	var existing []model.FormModel
	if err := s.DB.Where("user_id = ? AND entry_date IN ?", userID, weeks).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, f := range existing {
		have[f.EntryDate.Format("2006-01-02")] = true
	}

	var missing []model.FormModel
	for _, week := range weeks {
		if !have[week.Format("2006-01-02")] {
			missing = append(missing, model.FormModel{
				UserID:    userID,
				EntryDate: week,
				Status:    model.FormStatusNotStarted,
			})
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&missing).Error; err != nil {
		return nil, err
	}
	return missing, nil
}

// ListForms returns all forms of a user, most recent week first, answers
// preloaded.
func (s *FormService) ListForms(userID uuid.UUID) ([]model.FormModel, error) {
	var forms []model.FormModel
	err := s.DB.Preload("Answers").
		Where("user_id = ?", userID).
		Order("entry_date DESC").
		Find(&forms).Error
	return forms, err
}

// GetForm loads one form owned by the given user.
func (s *FormService) GetForm(formID, userID uuid.UUID) (*model.FormModel, error) {
	var form model.FormModel
	err := s.DB.Where("id = ? AND user_id = ?", formID, userID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// FillableForm is a form opened for editing: the active employee question set
// plus whatever answers exist already.
type FillableForm struct {
	Form      model.FormModel
	Questions []qModel.QuestionModel
	Answers   []model.UserAnswerModel
}

// GetFillable rejects future forms, otherwise returns the form with the active
// employee-audience questions and existing answers.
func (s *FormService) GetFillable(formID, userID uuid.UUID, today time.Time) (*FillableForm, error) {
	form, err := s.GetForm(formID, userID)
	if err != nil {
		return nil, err
	}
	if form.IsFuture(today) {
		return nil, ErrFutureForm
	}

	var questions []qModel.QuestionModel
	if err := s.DB.Preload("Options").
		Where("is_active = ? AND authentication_type IN ?", true, []int{qModel.AudienceEmployee, qModel.AudienceBoth}).
		Find(&questions).Error; err != nil {
		return nil, err
	}

	var answers []model.UserAnswerModel
	if err := s.DB.Where("form_id = ?", form.ID).Find(&answers).Error; err != nil {
		return nil, err
	}

	return &FillableForm{Form: *form, Questions: questions, Answers: answers}, nil
}

// SaveDraft validates and stores answers without submitting. A not-started
// form moves to in-progress; a submitted form keeps its status (the answers
// still update, matching resubmission semantics minus the review reset).
func (s *FormService) SaveDraft(formID, userID uuid.UUID, answers []dto.AnswerRecord, today time.Time) error {
	form, err := s.GetForm(formID, userID)
	if err != nil {
		return err
	}
	if form.IsFuture(today) {
		return ErrFutureForm
	}
	if _, err := ValidateAnswers(s.DB, answers, qModel.AudienceEmployee, EmployeeAnswerMaxLen); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.replaceAnswers(tx, form.ID, answers); err != nil {
			return err
		}
		if form.Status == model.FormStatusNotStarted {
			if err := tx.Model(&model.FormModel{}).Where("id = ?", form.ID).
				Update("status", model.FormStatusInProgress).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Submit validates the payload, then atomically replaces the form's answers,
// flips it to submitted, and get-or-creates the manager review at not-started
// when the owner's manager resolves to a local profile. Any validation failure
// aborts before any mutation.
func (s *FormService) Submit(formID, userID uuid.UUID, answers []dto.AnswerRecord, today time.Time) error {
	form, err := s.GetForm(formID, userID)
	if err != nil {
		return err
	}
	if form.IsFuture(today) {
		return ErrFutureForm
	}
	if _, err := ValidateAnswers(s.DB, answers, qModel.AudienceEmployee, EmployeeAnswerMaxLen); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.replaceAnswers(tx, form.ID, answers); err != nil {
			return err
		}
		if err := tx.Model(&model.FormModel{}).Where("id = ?", form.ID).
			Update("status", model.FormStatusSubmitted).Error; err != nil {
			return err
		}
		return s.ensureReviewForOwner(tx, form, userID)
	})
}

// Resubmit mirrors Submit but explicitly re-opens manager review: status is
// forced back to submitted and every existing review on the form resets to
// not-started. The future-week guard applies here too.
func (s *FormService) Resubmit(formID, userID uuid.UUID, answers []dto.AnswerRecord, today time.Time) error {
	form, err := s.GetForm(formID, userID)
	if err != nil {
		return err
	}
	if form.IsFuture(today) {
		return ErrFutureForm
	}
	if _, err := ValidateAnswers(s.DB, answers, qModel.AudienceEmployee, EmployeeAnswerMaxLen); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.replaceAnswers(tx, form.ID, answers); err != nil {
			return err
		}
		if err := tx.Model(&model.FormModel{}).Where("id = ?", form.ID).
			Update("status", model.FormStatusSubmitted).Error; err != nil {
			return err
		}
		if err := tx.Model(&reviewModel.ManagerReviewModel{}).
			Where("form_id = ?", form.ID).
			Update("status", reviewModel.ReviewStatusNotStarted).Error; err != nil {
			return err
		}
		return s.ensureReviewForOwner(tx, form, userID)
	})
}

// replaceAnswers swaps the whole answer set of a form: delete then insert,
// inside the caller's transaction.
func (s *FormService) replaceAnswers(tx *gorm.DB, formID uuid.UUID, answers []dto.AnswerRecord) error {
	if err := tx.Where("form_id = ?", formID).Delete(&model.UserAnswerModel{}).Error; err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	rows := make([]model.UserAnswerModel, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, model.UserAnswerModel{
			FormID:            formID,
			QuestionID:        a.QuestionID,
			OptionID:          a.OptionID,
			AnswerDescription: a.AnswerDescription,
		})
	}
	return tx.Create(&rows).Error
}

// ensureReviewForOwner resolves the owner's manager lazily and get-or-creates
// the (form, manager) review at not-started. It never resets an existing
// review: FirstOrCreate leaves found rows untouched.
func (s *FormService) ensureReviewForOwner(tx *gorm.DB, form *model.FormModel, ownerID uuid.UUID) error {
	var owner authModel.TeamsProfileModel
	if err := tx.Where("id = ?", ownerID).First(&owner).Error; err != nil {
		return err
	}
	if owner.ManagerID == nil || *owner.ManagerID == "" {
		return nil
	}

	var manager authModel.TeamsProfileModel
	err := tx.Where("teams_id = ?", *owner.ManagerID).First(&manager).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// manager not registered locally yet, a later submission will pick it up
		return nil
	}
	if err != nil {
		return err
	}

	review := reviewModel.ManagerReviewModel{
		FormID:    form.ID,
		ManagerID: manager.ID,
		Status:    reviewModel.ReviewStatusNotStarted,
	}
	return tx.Where("form_id = ? AND manager_id = ?", form.ID, manager.ID).
		FirstOrCreate(&review).Error
}
