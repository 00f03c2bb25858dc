package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"okrhub_backend/internals/features/weekly/forms/dto"
	qModel "okrhub_backend/internals/features/weekly/questions/model"
)

// Descriptive length limits per audience.
const (
	EmployeeAnswerMaxLen = 250
	ManagerAnswerMaxLen  = 500
)

// ValidationError carries every violation of a submission payload so the
// caller can fix them all in one pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "invalid answers: " + strings.Join(e.Violations, "; ")
}

// ValidateAnswers checks a flat answer payload against the active question set
// for the given audience: the question must exist, be active, and match the
// audience; descriptive answers respect maxLen; a selected option must belong
// to its question. Returns all violations at once, and the active question set
// used, so the write path can trust the payload without re-reading.
func ValidateAnswers(db *gorm.DB, answers []dto.AnswerRecord, audience, maxLen int) ([]qModel.QuestionModel, error) {
	var questions []qModel.QuestionModel
	if err := db.Preload("Options").
		Where("is_active = ? AND authentication_type IN ?", true, []int{audience, qModel.AudienceBoth}).
		Find(&questions).Error; err != nil {
		return nil, err
	}

	lookup := dto.NewQuestionLookup(questions)

	var violations []string
	for _, a := range answers {
		q, ok := lookup.Questions[a.QuestionID]
		if !ok {
			violations = append(violations, fmt.Sprintf("question %s does not exist or is not applicable", a.QuestionID))
			continue
		}

		switch q.Type {
		case qModel.QuestionTypeDescriptive:
			if len(a.AnswerDescription) > maxLen {
				violations = append(violations, fmt.Sprintf("answer for question %s exceeds %d characters", a.QuestionID, maxLen))
			}
		case qModel.QuestionTypeMCQ:
			if a.OptionID != nil {
				opt, ok := lookup.Options[*a.OptionID]
				if !ok {
					violations = append(violations, fmt.Sprintf("option %s does not exist", *a.OptionID))
				} else if opt.QuestionID != a.QuestionID {
					violations = append(violations, fmt.Sprintf("option %s does not belong to question %s", *a.OptionID, a.QuestionID))
				}
			}
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return questions, nil
}
