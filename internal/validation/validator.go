package validation

import (
	"strings"

	"eduverse/internal/domain"
)

const (
	maxMessageLength = 2000
	maxTopicLength   = 200
	minLessonLength  = 10
)

// Validator provides request validation functionality. Input errors are
// raised here, at the boundary, so an invalid request never reaches the AI
// call.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateMessage validates the chat-tutor message
func (v *Validator) ValidateMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return domain.NewMissingFieldError("Message")
	}
	if len(message) > maxMessageLength {
		return domain.NewInvalidInputError("Invalid input",
			"Message is too long. Please keep questions under 2000 characters.")
	}
	return nil
}

// ValidateTopic validates the quiz topic
func (v *Validator) ValidateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return domain.NewMissingFieldError("Topic")
	}
	if len(topic) > maxTopicLength {
		return domain.NewInvalidInputError("Invalid input",
			"Topic is too long. Please use a shorter topic.")
	}
	return nil
}

// ValidateLessonContent validates the lesson-analysis input
func (v *Validator) ValidateLessonContent(lessonContent string) error {
	trimmed := strings.TrimSpace(lessonContent)
	if trimmed == "" {
		return domain.NewInvalidInputError("Invalid input",
			"Lesson content is required and must be a string")
	}
	if len(trimmed) < minLessonLength {
		return domain.NewInvalidInputError("Invalid input",
			"Lesson content is too short. Please provide more content to analyze.")
	}
	return nil
}
