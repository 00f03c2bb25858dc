package seeds

import (
	"log"

	"gorm.io/gorm"

	"okrhub_backend/internals/features/weekly/questions/model"
)

type questionSeed struct {
	Name     string
	Type     int
	AuthType int
	Options  []string
}

var productivityScale = []string{"Very Low", "Low", "Average", "High", "Very High"}

var balanceScale = []string{"Very Dissatisfied", "Dissatisfied", "Neutral", "Satisfied", "Very Satisfied"}

var performanceScale = []string{
	"Excellent - Exceeded expectations",
	"Good - Met all expectations",
	"Satisfactory - Met most expectations",
	"Needs improvement - Several expectations not met",
	"Unsatisfactory - Most expectations not met",
}

var defaultQuestions = []questionSeed{
	{Name: "What challenges did you face this week?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceEmployee},
	{Name: "What achievements were you proud of this week?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceEmployee},
	{Name: "What are your priorities for next week?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceEmployee},
	{Name: "How would you rate your productivity this week?", Type: model.QuestionTypeMCQ, AuthType: model.AudienceEmployee, Options: productivityScale},
	{Name: "How do you feel about your work-life balance this week?", Type: model.QuestionTypeMCQ, AuthType: model.AudienceEmployee, Options: balanceScale},

	{Name: "What is your assessment of the team member's performance this week?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceManager},
	{Name: "What feedback and suggestions would you give to improve?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceManager},
	{Name: "How would you rate the team member's overall productivity this week?", Type: model.QuestionTypeMCQ, AuthType: model.AudienceManager, Options: performanceScale},
	{Name: "What achievements stood out in their weekly discussion?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceManager},
	{Name: "Are there any concerns you need to address with this team member?", Type: model.QuestionTypeDescriptive, AuthType: model.AudienceManager},
}

// SeedQuestions inserts the default question catalog. Idempotent on the
// question text, so re-running never duplicates.
func SeedQuestions(db *gorm.DB) error {
	for _, seed := range defaultQuestions {
		var count int64
		if err := db.Model(&model.QuestionModel{}).
			Where("question_name = ?", seed.Name).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		question := model.QuestionModel{
			QuestionName: seed.Name,
			Type:         seed.Type,
			AuthType:     seed.AuthType,
			IsActive:     true,
		}
		for _, opt := range seed.Options {
			question.Options = append(question.Options, model.OptionModel{OptionDesc: opt})
		}
		if err := db.Create(&question).Error; err != nil {
			return err
		}
		log.Printf("[INFO] seeded question: %s", seed.Name)
	}
	return nil
}
