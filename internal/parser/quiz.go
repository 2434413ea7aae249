package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"eduverse/internal/domain"
)

// rawQuizQuestion matches the JSON shape the model is instructed to return.
// CorrectAnswer is left untyped because models return it either as a number
// or as a numeric string.
type rawQuizQuestion struct {
	Question      string      `json:"question"`
	Answers       []string    `json:"answers"`
	CorrectAnswer interface{} `json:"correctAnswer"`
}

// ParseQuizSet converts raw model text into a validated QuizSet.
//
// The parse is strict: any deviation from the required shape (wrong question
// count, wrong answer count, out-of-range correct-answer index) is a
// MALFORMED_OUTPUT error naming the offending question. No default question
// is ever fabricated.
func ParseQuizSet(raw string) (domain.QuizSet, error) {
	cleaned := StripCodeFences(raw)

	var questions []rawQuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, domain.NewMalformedOutputError(
			"AI response is not in the correct format (not a JSON array)", err)
	}

	if len(questions) != domain.QuizQuestionCount {
		return nil, domain.NewMalformedOutputError(
			fmt.Sprintf("AI generated %d questions instead of %d", len(questions), domain.QuizQuestionCount), nil)
	}

	set := make(domain.QuizSet, 0, domain.QuizQuestionCount)
	for i, q := range questions {
		question := strings.TrimSpace(q.Question)
		if question == "" {
			return nil, domain.NewMalformedOutputError(
				fmt.Sprintf("Question %d is missing or invalid", i+1), nil)
		}

		if len(q.Answers) != domain.QuizAnswerCount {
			return nil, domain.NewMalformedOutputError(
				fmt.Sprintf("Question %d does not have exactly %d answers", i+1, domain.QuizAnswerCount), nil)
		}

		answers := make([]string, domain.QuizAnswerCount)
		for j, a := range q.Answers {
			trimmed := strings.TrimSpace(a)
			if trimmed == "" {
				return nil, domain.NewMalformedOutputError(
					fmt.Sprintf("Question %d has invalid answer format", i+1), nil)
			}
			answers[j] = trimmed
		}

		correct, ok := coerceAnswerIndex(q.CorrectAnswer)
		if !ok {
			return nil, domain.NewMalformedOutputError(
				fmt.Sprintf("Question %d has invalid correctAnswer: %v", i+1, q.CorrectAnswer), nil)
		}

		set = append(set, domain.QuizQuestion{
			Question:      question,
			Answers:       answers,
			CorrectAnswer: correct,
		})
	}

	return set, nil
}

// StripCodeFences removes Markdown triple-backtick markers (with an optional
// "json" tag) and surrounding whitespace from model output.
func StripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// coerceAnswerIndex accepts a JSON number or a numeric string and requires an
// integral value in [0, QuizAnswerCount).
func coerceAnswerIndex(v interface{}) (int, bool) {
	var idx int
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		idx = int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		idx = parsed
	default:
		return 0, false
	}
	if idx < 0 || idx >= domain.QuizAnswerCount {
		return 0, false
	}
	return idx, true
}
