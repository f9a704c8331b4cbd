package validation

import (
	"regexp"
	"strings"

	"hivequiz/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSlug validates a quiz slug path parameter
func (v *Validator) ValidateSlug(slug string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(slug) == "" {
		errors = append(errors, domain.NewMissingFieldError("slug"))
	} else if !isValidSlug(slug) {
		errors = append(errors, domain.NewInvalidFormatError("slug", slug))
	}

	return errors
}

// ValidateSubmission validates a quiz submission payload
func (v *Validator) ValidateSubmission(answers []domain.SubmittedAnswer) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if len(answers) == 0 {
		errors = append(errors, domain.NewMissingFieldError("answers"))
		return errors
	}

	for _, answer := range answers {
		if strings.TrimSpace(answer.QuestionID) == "" {
			errors = append(errors, domain.NewMissingFieldError("questionId"))
			continue
		}
		if len(answer.SelectedOptionIDs) == 0 {
			errors = append(errors, domain.NewMissingFieldError("selectedOptions"))
		}
	}

	return errors
}

// ValidateEventRequest validates a client analytics event payload
func (v *Validator) ValidateEventRequest(eventType string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(eventType) == "" {
		errors = append(errors, domain.NewMissingFieldError("event_type"))
	} else if !domain.EventType(eventType).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("event_type", eventType))
	}

	return errors
}

// ValidateBranchOverride validates a branch override payload
func (v *Validator) ValidateBranchOverride(questionID, optionID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(questionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("question_id"))
	}
	if strings.TrimSpace(optionID) == "" {
		errors = append(errors, domain.NewMissingFieldError("option_id"))
	}

	return errors
}

// isValidSlug checks if the slug is URL-safe: lowercase alphanumeric with
// hyphens and underscores, not starting with a separator.
func isValidSlug(s string) bool {
	if len(s) == 0 || len(s) > 100 {
		return false
	}
	validSlug := regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	return validSlug.MatchString(s)
}
