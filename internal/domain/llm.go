package domain

import (
	"context"
	"time"
)

// TextGenerator is the outbound port to a generative-AI provider. It takes a
// fully constructed prompt and returns the model's raw text. Implementations
// classify failures into the upstream error codes.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Cache abstracts the response cache so services do not depend on Redis
// directly.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by Cache.Get when the key does not exist.
var ErrCacheMiss = NewError(ErrNotFound, "cache miss", nil)
