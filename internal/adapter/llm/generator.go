// Package llm adapts langchaingo model clients to the domain.TextGenerator
// port.
package llm

import (
	"context"
	"strings"
	"time"

	"eduverse/internal/config"
	"eduverse/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 800
)

// Generator calls a langchaingo model with a per-request timeout and
// classifies failures into the upstream error taxonomy.
type Generator struct {
	model   llms.Model
	timeout time.Duration
}

var _ domain.TextGenerator = (*Generator)(nil)

// NewGemini constructs a Gemini-backed generator. A missing API key is a
// configuration error raised before any call is attempted.
func NewGemini(ctx context.Context, cfg config.LLMConfig) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, domain.NewConfigurationError("GEMINI_API_KEY is not set")
	}
	model, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.GeminiModel),
	)
	if err != nil {
		return nil, domain.NewError(domain.ErrConfiguration, "failed to create Gemini client", err)
	}
	return &Generator{model: model, timeout: cfg.RequestTimeout}, nil
}

// NewOpenAI constructs an OpenAI-backed generator.
func NewOpenAI(cfg config.LLMConfig) (*Generator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, domain.NewConfigurationError("OPENAI_API_KEY is not set")
	}
	model, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.OpenAIModel),
	)
	if err != nil {
		return nil, domain.NewError(domain.ErrConfiguration, "failed to create OpenAI client", err)
	}
	return &Generator{model: model, timeout: cfg.RequestTimeout}, nil
}

// Generate sends the prompt and returns the model's raw text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	timeout := g.timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(defaultTemperature),
		llms.WithMaxTokens(defaultMaxTokens),
	)
	if err != nil {
		return "", ClassifyUpstreamError(err)
	}

	if strings.TrimSpace(response) == "" {
		return "", domain.NewUpstreamError(domain.ErrUpstreamMalformed, nil)
	}
	return response, nil
}
