package parser

import (
	"strings"

	"eduverse/internal/domain"
)

// lessonSection is the state of the line machine walking the model output.
type lessonSection int

const (
	sectionNone lessonSection = iota
	sectionSummary
	sectionKeyPoints
	sectionQuestions
)

// Section headers and bullet markers of the canonical line-oriented dialect.
const (
	headerSummary   = "Summary:"
	headerKeyPoints = "Key Points:"
	headerQuestions = "Review Questions:"

	keyPointMarker = "-"
	questionMarker = "?"
)

// headerTransitions maps a trimmed header line to the section it opens.
var headerTransitions = map[string]lessonSection{
	headerSummary:   sectionSummary,
	headerKeyPoints: sectionKeyPoints,
	headerQuestions: sectionQuestions,
}

// Generic filler used when the model output yields nothing usable. A lesson
// analysis is never rejected for shape; "no analysis" is worse for this
// feature than "generic analysis".
var (
	fallbackSummary        = "Unable to generate a detailed summary at this time."
	defaultSummary         = "Analysis completed. Please refer to the key points and questions below."
	fallbackKeyPoints      = []string{
		"Understanding the main concept",
		"Identifying key relationships",
		"Recognizing important details",
		"Applying the knowledge",
		"Making connections to other topics",
	}
	fallbackQuestions = []string{
		"What are the main concepts discussed in this lesson?",
		"How would you explain these concepts to someone else?",
		"How can you apply this knowledge in real-world situations?",
	}

	keyPointFiller = "Exploring additional aspects of the topic"
	questionFiller = "How can you apply this knowledge in different contexts?"

	noteDegraded = "The analysis has been simplified due to processing limitations."
	noteAdjusted = "Some parts of the analysis have been adjusted to maintain consistency."
)

// ParseLessonAnalysis converts line-oriented model output into a
// LessonAnalysis.
//
// A single forward pass tracks the current section. Header lines switch the
// section and contribute no content; summary lines are joined with single
// spaces; key points must start with "-" and questions with "?". The
// post-pass correction never hard-fails: empty sections are defaulted,
// key points are fixed to exactly 5 entries and questions to exactly 3, and
// Note is set whenever any correction was applied.
func ParseLessonAnalysis(raw string) domain.LessonAnalysis {
	var (
		summary   strings.Builder
		keyPoints []string
		questions []string
		section   = sectionNone
	)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if next, ok := headerTransitions[line]; ok {
			section = next
			continue
		}

		switch section {
		case sectionSummary:
			if summary.Len() > 0 {
				summary.WriteString(" ")
			}
			summary.WriteString(line)
		case sectionKeyPoints:
			if strings.HasPrefix(line, keyPointMarker) {
				keyPoints = append(keyPoints, strings.TrimSpace(strings.TrimPrefix(line, keyPointMarker)))
			}
		case sectionQuestions:
			if strings.HasPrefix(line, questionMarker) {
				questions = append(questions, strings.TrimSpace(strings.TrimPrefix(line, questionMarker)))
			}
		}
	}

	return normalizeLessonAnalysis(summary.String(), keyPoints, questions)
}

// normalizeLessonAnalysis applies the correction rules that fix the output
// shape: total-failure fallback, per-section defaults, then truncation and
// padding to the exact required counts.
func normalizeLessonAnalysis(summary string, keyPoints, questions []string) domain.LessonAnalysis {
	if summary == "" && len(keyPoints) == 0 && len(questions) == 0 {
		return domain.LessonAnalysis{
			Summary:            fallbackSummary,
			KeyPoints:          append([]string(nil), fallbackKeyPoints...),
			SuggestedQuestions: append([]string(nil), fallbackQuestions...),
			Note:               noteDegraded,
		}
	}

	adjusted := false

	if summary == "" {
		summary = defaultSummary
		adjusted = true
	}
	if len(keyPoints) == 0 {
		keyPoints = append([]string(nil), fallbackKeyPoints...)
		adjusted = true
	}
	if len(questions) == 0 {
		questions = append([]string(nil), fallbackQuestions...)
		adjusted = true
	}

	if len(keyPoints) != domain.KeyPointCount {
		adjusted = true
	}
	if len(keyPoints) > domain.KeyPointCount {
		keyPoints = keyPoints[:domain.KeyPointCount]
	}
	for len(keyPoints) < domain.KeyPointCount {
		keyPoints = append(keyPoints, keyPointFiller)
	}

	if len(questions) != domain.SuggestedQuestionCount {
		adjusted = true
	}
	if len(questions) > domain.SuggestedQuestionCount {
		questions = questions[:domain.SuggestedQuestionCount]
	}
	for len(questions) < domain.SuggestedQuestionCount {
		questions = append(questions, questionFiller)
	}

	analysis := domain.LessonAnalysis{
		Summary:            summary,
		KeyPoints:          keyPoints,
		SuggestedQuestions: questions,
	}
	if adjusted {
		analysis.Note = noteAdjusted
	}
	return analysis
}
