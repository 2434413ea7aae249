package handler

import (
	"io"
	"mime/multipart"

	"eduverse/internal/domain"
	"eduverse/internal/dto"
	"eduverse/internal/logger"
	"eduverse/internal/service"
	"eduverse/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AIHandler handles the AI proxy HTTP requests
type AIHandler struct {
	service        service.AIService
	validator      *validation.Validator
	maxUploadBytes int64
}

// NewAIHandler creates a new AIHandler instance
func NewAIHandler(svc service.AIService, maxUploadBytes int) *AIHandler {
	return &AIHandler{
		service:        svc,
		validator:      validation.NewValidator(),
		maxUploadBytes: int64(maxUploadBytes),
	}
}

// Ask handles POST /api/v1/ai/ask — one chat-tutor turn.
func (h *AIHandler) Ask(c *fiber.Ctx) error {
	var req dto.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body", err.Error())
	}
	if err := h.validator.ValidateMessage(req.Message); err != nil {
		return err
	}

	response, err := h.service.Ask(c.Context(), req.Message)
	if err != nil {
		logger.Get().Error("Failed to get AI response", zap.Error(err))
		return err
	}

	return c.JSON(dto.AskResponse{Response: response})
}

// GenerateQuiz handles POST /api/v1/ai/generate-quiz. Quiz validation is
// strict: a malformed model response is surfaced to the caller, never
// replaced with a fabricated quiz.
func (h *AIHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body", err.Error())
	}
	if err := h.validator.ValidateTopic(req.Topic); err != nil {
		return err
	}

	questions, err := h.service.GenerateQuiz(c.Context(), req.Topic)
	if err != nil {
		logger.Get().Error("Failed to generate quiz",
			zap.Error(err),
			zap.String("topic", req.Topic),
		)
		return err
	}

	return c.JSON(dto.GenerateQuizResponse{Questions: questions})
}

// AnalyzeLesson handles POST /api/v1/ai/analyze-lesson. Unlike quizzes, a
// total parse failure is masked with generic filler plus a note.
func (h *AIHandler) AnalyzeLesson(c *fiber.Ctx) error {
	var req dto.AnalyzeLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body", err.Error())
	}
	if err := h.validator.ValidateLessonContent(req.LessonContent); err != nil {
		return err
	}

	analysis, err := h.service.AnalyzeLesson(c.Context(), req.LessonContent)
	if err != nil {
		logger.Get().Error("Failed to analyze lesson", zap.Error(err))
		return err
	}

	return c.JSON(dto.AnalyzeLessonResponse{
		Summary:            analysis.Summary,
		KeyPoints:          analysis.KeyPoints,
		SuggestedQuestions: analysis.SuggestedQuestions,
		Note:               analysis.Note,
	})
}

// AnalyzeFile handles POST /api/v1/ai/analyze-file (multipart "file").
func (h *AIHandler) AnalyzeFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("No file uploaded", "Please select a file to analyze")
	}

	// Reject oversized uploads before reading or extracting anything.
	if fileHeader.Size > h.maxUploadBytes {
		return domain.NewFileTooLargeError(int(h.maxUploadBytes))
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded file", err)
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	result, err := h.service.AnalyzeFile(c.Context(), fileHeader.Filename, mimeType, data)
	if err != nil {
		logger.Get().Error("Failed to analyze file",
			zap.Error(err),
			zap.String("file_name", fileHeader.Filename),
			zap.String("mime_type", mimeType),
		)
		return err
	}

	return c.JSON(dto.AnalyzeFileResponse{
		Success:  true,
		FileName: result.FileName,
		FileType: result.FileType,
		Summary:  result.Summary,
	})
}

// Transcribe handles POST /api/v1/ai/transcribe (multipart "audio").
func (h *AIHandler) Transcribe(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return domain.NewMissingFieldError("Audio file")
	}
	if fileHeader.Size > h.maxUploadBytes {
		return domain.NewFileTooLargeError(int(h.maxUploadBytes))
	}

	audio, err := readMultipartFile(fileHeader)
	if err != nil {
		return domain.NewInternalError("failed to read uploaded audio", err)
	}

	text, err := h.service.Transcribe(c.Context(), audio)
	if err != nil {
		logger.Get().Error("Failed to transcribe audio", zap.Error(err))
		return err
	}

	return c.JSON(dto.TranscribeResponse{Text: text})
}

// Health handles GET /health
func (h *AIHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
