package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"eduverse/internal/domain"
	"eduverse/internal/dto"
	"eduverse/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAIService
type MockAIService struct {
	AskFunc           func(ctx context.Context, message string) (string, error)
	GenerateQuizFunc  func(ctx context.Context, topic string) (domain.QuizSet, error)
	AnalyzeLessonFunc func(ctx context.Context, lessonContent string) (domain.LessonAnalysis, error)
	AnalyzeFileFunc   func(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error)
	TranscribeFunc    func(ctx context.Context, audio []byte) (string, error)
}

func (m *MockAIService) Ask(ctx context.Context, message string) (string, error) {
	return m.AskFunc(ctx, message)
}

func (m *MockAIService) GenerateQuiz(ctx context.Context, topic string) (domain.QuizSet, error) {
	return m.GenerateQuizFunc(ctx, topic)
}

func (m *MockAIService) AnalyzeLesson(ctx context.Context, lessonContent string) (domain.LessonAnalysis, error) {
	return m.AnalyzeLessonFunc(ctx, lessonContent)
}

func (m *MockAIService) AnalyzeFile(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error) {
	return m.AnalyzeFileFunc(ctx, fileName, mimeType, data)
}

func (m *MockAIService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return m.TranscribeFunc(ctx, audio)
}

const (
	testMaxUpload = 10 * 1024 * 1024

	// Transport slack over the upload cap for multipart framing, matching the
	// server wiring. The handler's exact size check stays authoritative.
	testMultipartOverhead = 1 << 20
)

func setupTestApp(svc *MockAIService) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    testMaxUpload + testMultipartOverhead,
		ErrorHandler: middleware.ErrorHandler(),
	})
	h := NewAIHandler(svc, testMaxUpload)

	app.Get("/health", h.Health)
	ai := app.Group("/api/v1/ai")
	ai.Post("/ask", h.Ask)
	ai.Post("/generate-quiz", h.GenerateQuiz)
	ai.Post("/analyze-lesson", h.AnalyzeLesson)
	ai.Post("/analyze-file", h.AnalyzeFile)
	ai.Post("/transcribe", h.Transcribe)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestAskHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockAIService{
			AskFunc: func(ctx context.Context, message string) (string, error) {
				assert.Equal(t, "What is mitosis?", message)
				return "Mitosis is cell division.", nil
			},
		}
		app := setupTestApp(svc)

		resp := postJSON(t, app, "/api/v1/ai/ask", dto.AskRequest{Message: "What is mitosis?"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.AskResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Mitosis is cell division.", body.Response)
	})

	t.Run("missing message", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		resp := postJSON(t, app, "/api/v1/ai/ask", dto.AskRequest{Message: "   "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Message is required", body.Error)
	})

	t.Run("message too long", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		resp := postJSON(t, app, "/api/v1/ai/ask", dto.AskRequest{Message: strings.Repeat("x", 2001)})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("upstream failure is a 500 with the uniform body", func(t *testing.T) {
		svc := &MockAIService{
			AskFunc: func(ctx context.Context, message string) (string, error) {
				return "", domain.NewUpstreamError(domain.ErrUpstreamUnavailable, nil)
			},
		}
		app := setupTestApp(svc)

		resp := postJSON(t, app, "/api/v1/ai/ask", dto.AskRequest{Message: "hi there"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "AI service request failed", body.Error)
	})
}

func TestGenerateQuizHandler(t *testing.T) {
	quizSet := domain.QuizSet{
		{Question: "Q1?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
		{Question: "Q2?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		{Question: "Q3?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
		{Question: "Q4?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
	}

	t.Run("success", func(t *testing.T) {
		svc := &MockAIService{
			GenerateQuizFunc: func(ctx context.Context, topic string) (domain.QuizSet, error) {
				return quizSet, nil
			},
		}
		app := setupTestApp(svc)

		resp := postJSON(t, app, "/api/v1/ai/generate-quiz", dto.GenerateQuizRequest{Topic: "Photosynthesis"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.GenerateQuizResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Questions, 4)
		assert.Equal(t, 1, body.Questions[0].CorrectAnswer)
	})

	t.Run("missing topic", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		resp := postJSON(t, app, "/api/v1/ai/generate-quiz", dto.GenerateQuizRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Topic is required", body.Error)
	})

	t.Run("malformed model output is a 500 with details", func(t *testing.T) {
		svc := &MockAIService{
			GenerateQuizFunc: func(ctx context.Context, topic string) (domain.QuizSet, error) {
				return nil, domain.NewMalformedOutputError("AI generated 3 questions instead of 4", nil)
			},
		}
		app := setupTestApp(svc)

		resp := postJSON(t, app, "/api/v1/ai/generate-quiz", dto.GenerateQuizRequest{Topic: "Photosynthesis"})
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Failed to generate valid quiz questions. Please try again.", body.Error)
		assert.Contains(t, body.Details, "3 questions instead of 4")
	})
}

func TestAnalyzeLessonHandler(t *testing.T) {
	t.Run("success without note omits the field", func(t *testing.T) {
		svc := &MockAIService{
			AnalyzeLessonFunc: func(ctx context.Context, lessonContent string) (domain.LessonAnalysis, error) {
				return domain.LessonAnalysis{
					Summary:            "A summary.",
					KeyPoints:          []string{"p1", "p2", "p3", "p4", "p5"},
					SuggestedQuestions: []string{"q1", "q2", "q3"},
				}, nil
			},
		}
		app := setupTestApp(svc)

		resp := postJSON(t, app, "/api/v1/ai/analyze-lesson",
			dto.AnalyzeLessonRequest{LessonContent: "A lesson about the water cycle."})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.NotContains(t, string(raw), `"note"`)

		var body dto.AnalyzeLessonResponse
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "A summary.", body.Summary)
		assert.Len(t, body.KeyPoints, 5)
		assert.Len(t, body.SuggestedQuestions, 3)
	})

	t.Run("note is included when present", func(t *testing.T) {
		svc := &MockAIService{
			AnalyzeLessonFunc: func(ctx context.Context, lessonContent string) (domain.LessonAnalysis, error) {
				return domain.LessonAnalysis{
					Summary:            "A summary.",
					KeyPoints:          []string{"p1", "p2", "p3", "p4", "p5"},
					SuggestedQuestions: []string{"q1", "q2", "q3"},
					Note:               "Some parts of the analysis have been adjusted to maintain consistency.",
				}, nil
			},
		}
		app := setupTestApp(svc)

		resp := postJSON(t, app, "/api/v1/ai/analyze-lesson",
			dto.AnalyzeLessonRequest{LessonContent: "A lesson about the water cycle."})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.AnalyzeLessonResponse
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Note)
	})

	t.Run("empty content", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		resp := postJSON(t, app, "/api/v1/ai/analyze-lesson", dto.AnalyzeLessonRequest{LessonContent: ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Lesson content is required and must be a string", body.Details)
	})

	t.Run("content too short", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		resp := postJSON(t, app, "/api/v1/ai/analyze-lesson", dto.AnalyzeLessonRequest{LessonContent: "short"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Contains(t, body.Details, "too short")
	})
}

func multipartBody(t *testing.T, field, fileName, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestAnalyzeFileHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockAIService{
			AnalyzeFileFunc: func(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error) {
				assert.Equal(t, "notes.txt", fileName)
				assert.Equal(t, "text/plain", mimeType)
				assert.Equal(t, []byte("lesson notes"), data)
				return &domain.FileAnalysisResult{
					FileName: fileName,
					FileType: mimeType,
					Summary:  "A short summary.",
				}, nil
			},
		}
		app := setupTestApp(svc)

		body, contentType := multipartBody(t, "file", "notes.txt", "text/plain", []byte("lesson notes"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-file", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.AnalyzeFileResponse
		decodeBody(t, resp, &out)
		assert.True(t, out.Success)
		assert.Equal(t, "notes.txt", out.FileName)
		assert.Equal(t, "A short summary.", out.Summary)
	})

	t.Run("missing file", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-file", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "No file uploaded", body.Error)
	})

	t.Run("file at exactly the upload cap is accepted", func(t *testing.T) {
		svc := &MockAIService{
			AnalyzeFileFunc: func(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error) {
				assert.Len(t, data, testMaxUpload)
				return &domain.FileAnalysisResult{
					FileName: fileName,
					FileType: mimeType,
					Summary:  "A short summary.",
				}, nil
			},
		}
		app := setupTestApp(svc)

		payload := bytes.Repeat([]byte("a"), testMaxUpload)
		body, contentType := multipartBody(t, "file", "big.txt", "text/plain", payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-file", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("file over the upload cap is a 400 with the uniform body", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		payload := bytes.Repeat([]byte("a"), testMaxUpload+1)
		body, contentType := multipartBody(t, "file", "huge.txt", "text/plain", payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-file", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out dto.ErrorResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "File too large", out.Error)
	})

	t.Run("unsupported type from the service is a 400", func(t *testing.T) {
		svc := &MockAIService{
			AnalyzeFileFunc: func(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error) {
				return nil, domain.NewUnsupportedFileTypeError(mimeType)
			},
		}
		app := setupTestApp(svc)

		body, contentType := multipartBody(t, "file", "pic.png", "image/png", []byte{0x89})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-file", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out dto.ErrorResponse
		decodeBody(t, resp, &out)
		assert.Contains(t, out.Details, "image/png")
	})
}

func TestTranscribeHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockAIService{
			TranscribeFunc: func(ctx context.Context, audio []byte) (string, error) {
				return "hello from the lecture", nil
			},
		}
		app := setupTestApp(svc)

		body, contentType := multipartBody(t, "audio", "clip.wav", "audio/wav", []byte{1, 2, 3})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/transcribe", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.TranscribeResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "hello from the lecture", out.Text)
	})

	t.Run("missing audio", func(t *testing.T) {
		app := setupTestApp(&MockAIService{})

		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/transcribe", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Audio file is required", body.Error)
	})

	t.Run("speech not configured is a 500", func(t *testing.T) {
		svc := &MockAIService{
			TranscribeFunc: func(ctx context.Context, audio []byte) (string, error) {
				return "", domain.NewConfigurationError("Speech service is not configured")
			},
		}
		app := setupTestApp(svc)

		body, contentType := multipartBody(t, "audio", "clip.wav", "audio/wav", []byte{1})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/transcribe", body)
		req.Header.Set("Content-Type", contentType)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestHealthHandler(t *testing.T) {
	app := setupTestApp(&MockAIService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.HealthResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body.Status)
}

func TestUnknownErrorsAreNotLeaked(t *testing.T) {
	svc := &MockAIService{
		AskFunc: func(ctx context.Context, message string) (string, error) {
			return "", io.ErrUnexpectedEOF
		},
	}
	app := setupTestApp(svc)

	resp := postJSON(t, app, "/api/v1/ai/ask", dto.AskRequest{Message: "hello"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Internal server error", body.Error)
}
