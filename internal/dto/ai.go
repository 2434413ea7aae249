package dto

import "eduverse/internal/domain"

// AskRequest is the body for POST /api/v1/ai/ask
type AskRequest struct {
	Message string `json:"message"`
}

// AskResponse carries the tutor's reply
type AskResponse struct {
	Response string `json:"response"`
}

// GenerateQuizRequest is the body for POST /api/v1/ai/generate-quiz
type GenerateQuizRequest struct {
	Topic string `json:"topic"`
}

// GenerateQuizResponse carries the validated question set
type GenerateQuizResponse struct {
	Questions domain.QuizSet `json:"questions"`
}

// AnalyzeLessonRequest is the body for POST /api/v1/ai/analyze-lesson
type AnalyzeLessonRequest struct {
	LessonContent string `json:"lessonContent"`
}

// AnalyzeLessonResponse mirrors domain.LessonAnalysis on the wire
type AnalyzeLessonResponse struct {
	Summary            string   `json:"summary"`
	KeyPoints          []string `json:"keyPoints"`
	SuggestedQuestions []string `json:"suggestedQuestions"`
	Note               string   `json:"note,omitempty"`
}

// AnalyzeFileResponse is returned by POST /api/v1/ai/analyze-file
type AnalyzeFileResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	Summary  string `json:"summary"`
}

// TranscribeResponse is returned by POST /api/v1/ai/transcribe
type TranscribeResponse struct {
	Text string `json:"text"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the uniform error body for every endpoint
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
