package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"eduverse/internal/cache"
	"eduverse/internal/config"
	"eduverse/internal/domain"
	"eduverse/internal/extract"
	"eduverse/internal/logger"
	"eduverse/internal/parser"
	"eduverse/internal/prompt"
	"eduverse/internal/ratelimit"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AIService orchestrates the AI proxy endpoints: prompt construction, the
// outbound model call and normalization of the model output.
type AIService interface {
	Ask(ctx context.Context, message string) (string, error)
	GenerateQuiz(ctx context.Context, topic string) (domain.QuizSet, error)
	AnalyzeLesson(ctx context.Context, lessonContent string) (domain.LessonAnalysis, error)
	AnalyzeFile(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error)
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type aiService struct {
	generator   domain.TextGenerator
	transcriber domain.Transcriber
	cache       domain.Cache
	limiter     *ratelimit.Limiter
	sfGroup     singleflight.Group

	promptCharLimit int
	maxUploadBytes  int
	quizTTL         time.Duration
	lessonTTL       time.Duration
}

// NewAIService wires the orchestrator. transcriber and responseCache may be
// nil; transcription then reports a configuration error and caching is
// skipped.
func NewAIService(
	generator domain.TextGenerator,
	transcriber domain.Transcriber,
	responseCache domain.Cache,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) AIService {
	return &aiService{
		generator:       generator,
		transcriber:     transcriber,
		cache:           responseCache,
		limiter:         limiter,
		promptCharLimit: cfg.Limits.PromptCharLimit,
		maxUploadBytes:  cfg.Limits.MaxUploadBytes,
		quizTTL:         cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Quiz, 24*time.Hour),
		lessonTTL:       cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.LessonAnalysis, 24*time.Hour),
	}
}

// Ask sends a single tutor-chat turn. Responses are not cached; two students
// asking the same question should not get a canned conversation.
func (s *aiService) Ask(ctx context.Context, message string) (string, error) {
	return s.generate(ctx, prompt.Tutor(message))
}

// GenerateQuiz produces a validated 4-question set for the topic. Identical
// topics share one generation via singleflight, and validated sets are
// cached; parse failures are surfaced and never cached.
func (s *aiService) GenerateQuiz(ctx context.Context, topic string) (domain.QuizSet, error) {
	cacheKey := cache.GenerateCacheKey("ai", "quiz", hashString(normalizeTopic(topic)))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var set domain.QuizSet
			if err := json.Unmarshal([]byte(cached), &set); err == nil && len(set) == domain.QuizQuestionCount {
				return set, nil
			}
			// Evict the poisoned entry so it is regenerated instead of
			// failing decode on every request until the TTL expires.
			logger.Get().Warn("Evicting undecodable cached quiz", zap.String("key", cacheKey))
			if err := s.cache.Delete(ctx, cacheKey); err != nil {
				logger.Get().Warn("Quiz cache delete failed", zap.Error(err))
			}
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Quiz cache read failed", zap.Error(err))
		}
	}

	result, err, _ := s.sfGroup.Do(cacheKey, func() (interface{}, error) {
		raw, err := s.generate(ctx, prompt.Quiz(topic))
		if err != nil {
			return nil, err
		}

		set, err := parser.ParseQuizSet(raw)
		if err != nil {
			logger.Get().Error("Quiz output failed validation",
				zap.Error(err),
				zap.String("topic", topic),
			)
			return nil, err
		}

		if s.cache != nil {
			if data, err := json.Marshal(set); err == nil {
				if err := s.cache.Set(ctx, cacheKey, string(data), s.quizTTL); err != nil {
					logger.Get().Warn("Quiz cache write failed", zap.Error(err))
				}
			}
		}
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.QuizSet), nil
}

// AnalyzeLesson runs the line-oriented analysis. The parse itself never
// fails; degraded (noted) results are not cached so a transient bad model
// response does not pin generic filler for the TTL.
func (s *aiService) AnalyzeLesson(ctx context.Context, lessonContent string) (domain.LessonAnalysis, error) {
	cacheKey := cache.GenerateCacheKey("ai", "lesson", hashString(strings.TrimSpace(lessonContent)))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var analysis domain.LessonAnalysis
			if err := json.Unmarshal([]byte(cached), &analysis); err == nil {
				return analysis, nil
			}
		} else if err != domain.ErrCacheMiss {
			logger.Get().Warn("Lesson cache read failed", zap.Error(err))
		}
	}

	raw, err := s.generate(ctx, prompt.Lesson(lessonContent))
	if err != nil {
		return domain.LessonAnalysis{}, err
	}

	analysis := parser.ParseLessonAnalysis(raw)

	if s.cache != nil && analysis.Note == "" {
		if data, err := json.Marshal(analysis); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), s.lessonTTL); err != nil {
				logger.Get().Warn("Lesson cache write failed", zap.Error(err))
			}
		}
	}
	return analysis, nil
}

// AnalyzeFile extracts text from the upload and summarizes it. The size cap
// is enforced before extraction is attempted.
func (s *aiService) AnalyzeFile(ctx context.Context, fileName, mimeType string, data []byte) (*domain.FileAnalysisResult, error) {
	if len(data) > s.maxUploadBytes {
		return nil, domain.NewFileTooLargeError(s.maxUploadBytes)
	}

	text, err := extract.Text(mimeType, data)
	if err != nil {
		return nil, err
	}

	summary, err := s.generate(ctx, prompt.FileSummary(text, s.promptCharLimit))
	if err != nil {
		return nil, err
	}

	return &domain.FileAnalysisResult{
		FileName: fileName,
		FileType: mimeType,
		Summary:  summary,
	}, nil
}

// Transcribe delegates to the speech provider.
func (s *aiService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if s.transcriber == nil {
		return "", domain.NewConfigurationError("Speech service is not configured")
	}
	if len(audio) == 0 {
		return "", domain.NewMissingFieldError("Audio file")
	}
	return s.transcriber.Transcribe(ctx, audio)
}

// generate applies the outbound throttle and calls the model. No retries:
// transient-failure retry is the client's responsibility.
func (s *aiService) generate(ctx context.Context, p string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return "", domain.NewInternalError("request cancelled while waiting for rate limiter", err)
		}
	}

	start := time.Now()
	raw, err := s.generator.Generate(ctx, p)
	if err != nil {
		return "", err
	}
	logger.Get().Debug("Model call completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("prompt_chars", len(p)),
		zap.Int("response_chars", len(raw)),
	)
	return raw, nil
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
