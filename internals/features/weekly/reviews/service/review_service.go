package service

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "okrhub_backend/internals/features/users/teamsauth/model"
	formDTO "okrhub_backend/internals/features/weekly/forms/dto"
	formModel "okrhub_backend/internals/features/weekly/forms/model"
	formService "okrhub_backend/internals/features/weekly/forms/service"
	qModel "okrhub_backend/internals/features/weekly/questions/model"
	"okrhub_backend/internals/features/weekly/reviews/dto"
	"okrhub_backend/internals/features/weekly/reviews/model"
)

var (
	ErrFormNotFound  = errors.New("form not found")
	ErrNotAuthorized = errors.New("not authorized to review this form")
)

// ReviewService drives the manager side of the weekly discussion: review
// creation, detail, submission, and team metrics.
type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

// EnsureReviews get-or-creates a not-started review for every submitted form
// in the slice. Idempotent; existing reviews keep their status.
func (s *ReviewService) EnsureReviews(managerID uuid.UUID, forms []formModel.FormModel) ([]model.ManagerReviewModel, error) {
	var created []model.ManagerReviewModel
	for _, form := range forms {
		if form.Status != formModel.FormStatusSubmitted {
			continue
		}
		var existing model.ManagerReviewModel
		err := s.DB.Where("form_id = ? AND manager_id = ?", form.ID, managerID).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		review := model.ManagerReviewModel{
			FormID:    form.ID,
			ManagerID: managerID,
			Status:    model.ReviewStatusNotStarted,
		}
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&review).Error; err != nil {
			return nil, err
		}
		created = append(created, review)
	}
	return created, nil
}

// getOrAuthorizeReview returns the (form, manager) review, creating it when
// the manager is the owner's recorded manager. A pre-existing review also
// authorizes, covering managers kept after a reporting-line change.
func (s *ReviewService) getOrAuthorizeReview(form *formModel.FormModel, manager *authModel.TeamsProfileModel) (*model.ManagerReviewModel, error) {
	var review model.ManagerReviewModel
	err := s.DB.Where("form_id = ? AND manager_id = ?", form.ID, manager.ID).First(&review).Error
	if err == nil {
		return &review, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var owner authModel.TeamsProfileModel
	if err := s.DB.Where("id = ?", form.UserID).First(&owner).Error; err != nil {
		return nil, err
	}
	if owner.ManagerID == nil || *owner.ManagerID != manager.TeamsID {
		return nil, ErrNotAuthorized
	}

	review = model.ManagerReviewModel{
		FormID:    form.ID,
		ManagerID: manager.ID,
		Status:    model.ReviewStatusNotStarted,
	}
	if err := s.DB.Where("form_id = ? AND manager_id = ?", form.ID, manager.ID).
		FirstOrCreate(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ReviewDetail is everything a manager needs to review one form: the review
// itself, the manager question set, existing manager answers, and the
// employee's own answers for cross-reference.
type ReviewDetail struct {
	Form            formModel.FormModel
	Review          model.ManagerReviewModel
	Questions       []qModel.QuestionModel
	ManagerAnswers  []model.ManagerAnswerModel
	EmployeeAnswers []formModel.UserAnswerModel
}

func (s *ReviewService) GetReviewDetail(formID uuid.UUID, manager *authModel.TeamsProfileModel) (*ReviewDetail, error) {
	var form formModel.FormModel
	err := s.DB.Where("id = ?", formID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, err
	}

	review, err := s.getOrAuthorizeReview(&form, manager)
	if err != nil {
		return nil, err
	}

	var questions []qModel.QuestionModel
	if err := s.DB.Preload("Options").
		Where("is_active = ? AND authentication_type IN ?", true, []int{qModel.AudienceManager, qModel.AudienceBoth}).
		Find(&questions).Error; err != nil {
		return nil, err
	}

	var managerAnswers []model.ManagerAnswerModel
	if err := s.DB.Where("review_id = ?", review.ID).Find(&managerAnswers).Error; err != nil {
		return nil, err
	}

	var employeeAnswers []formModel.UserAnswerModel
	if err := s.DB.Where("form_id = ?", form.ID).Find(&employeeAnswers).Error; err != nil {
		return nil, err
	}

	return &ReviewDetail{
		Form:            form,
		Review:          *review,
		Questions:       questions,
		ManagerAnswers:  managerAnswers,
		EmployeeAnswers: employeeAnswers,
	}, nil
}

// SubmitReview validates against the manager question set (descriptive ≤ 500),
// then atomically replaces the review's answers, completes it, and copies the
// summary onto the form for older clients.
func (s *ReviewService) SubmitReview(formID uuid.UUID, manager *authModel.TeamsProfileModel, answers []formDTO.AnswerRecord, summary string) error {
	var form formModel.FormModel
	err := s.DB.Where("id = ?", formID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrFormNotFound
	}
	if err != nil {
		return err
	}

	review, err := s.getOrAuthorizeReview(&form, manager)
	if err != nil {
		return err
	}

	if _, err := formService.ValidateAnswers(s.DB, answers, qModel.AudienceManager, formService.ManagerAnswerMaxLen); err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&model.ManagerAnswerModel{}).Error; err != nil {
			return err
		}
		if len(answers) > 0 {
			rows := make([]model.ManagerAnswerModel, 0, len(answers))
			for _, a := range answers {
				rows = append(rows, model.ManagerAnswerModel{
					ReviewID:          review.ID,
					QuestionID:        a.QuestionID,
					OptionID:          a.OptionID,
					AnswerDescription: a.AnswerDescription,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&model.ManagerReviewModel{}).Where("id = ?", review.ID).
			Updates(map[string]interface{}{
				"status":           model.ReviewStatusCompleted,
				"summary_comments": summary,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&formModel.FormModel{}).Where("id = ?", form.ID).
			Update("manager_review", summary).Error
	})
}

// TeamMembers lists the manager's direct reports.
func (s *ReviewService) TeamMembers(manager *authModel.TeamsProfileModel) ([]authModel.TeamsProfileModel, error) {
	var members []authModel.TeamsProfileModel
	if manager.TeamsID == "" {
		return members, nil
	}
	err := s.DB.Where("manager_id = ? AND is_active = ?", manager.TeamsID, true).
		Find(&members).Error
	return members, err
}

// TeamMemberForms returns every form of the manager's reports ordered by user
// then newest week, ensuring pending reviews exist for the submitted ones.
func (s *ReviewService) TeamMemberForms(manager *authModel.TeamsProfileModel) ([]formModel.FormModel, error) {
	members, err := s.TeamMembers(manager)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	var forms []formModel.FormModel
	if err := s.DB.Preload("Answers").
		Where("user_id IN ?", ids).
		Order("user_id, entry_date DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}

	if _, err := s.EnsureReviews(manager.ID, forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// TeamMetrics aggregates the team's non-future forms: totals, submissions,
// completion rate (one decimal), and review progress over the submitted ones.
func (s *ReviewService) TeamMetrics(manager *authModel.TeamsProfileModel, today time.Time) (*dto.TeamMetricsResponse, error) {
	metrics := &dto.TeamMetricsResponse{}

	members, err := s.TeamMembers(manager)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return metrics, nil
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	teamForms := s.DB.Model(&formModel.FormModel{}).
		Where("user_id IN ? AND entry_date <= ?", ids, cutoff)
	if err := teamForms.Session(&gorm.Session{}).Count(&metrics.TotalForms).Error; err != nil {
		return nil, err
	}
	if err := teamForms.Session(&gorm.Session{}).
		Where("status = ?", formModel.FormStatusSubmitted).
		Count(&metrics.CompletedForms).Error; err != nil {
		return nil, err
	}
	if metrics.TotalForms > 0 {
		rate := float64(metrics.CompletedForms) / float64(metrics.TotalForms) * 100
		metrics.CompletionRate = math.Round(rate*10) / 10
	}

	// review stats, scoped to submitted non-future forms of this manager
	var submittedIDs []uuid.UUID
	if err := s.DB.Model(&formModel.FormModel{}).
		Where("user_id IN ? AND entry_date <= ? AND status = ?", ids, cutoff, formModel.FormStatusSubmitted).
		Pluck("id", &submittedIDs).Error; err != nil {
		return nil, err
	}
	if len(submittedIDs) == 0 {
		return metrics, nil
	}

	if err := s.DB.Model(&model.ManagerReviewModel{}).
		Where("form_id IN ? AND manager_id = ? AND status = ?", submittedIDs, manager.ID, model.ReviewStatusCompleted).
		Count(&metrics.CompletedReviews).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&model.ManagerReviewModel{}).
		Where("form_id IN ? AND manager_id = ? AND status IN ?", submittedIDs, manager.ID,
			[]int{model.ReviewStatusNotStarted, model.ReviewStatusInProgress}).
		Count(&metrics.PendingReviews).Error; err != nil {
		return nil, err
	}

	return metrics, nil
}
