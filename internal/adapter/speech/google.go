// Package speech adapts Google Cloud Speech-to-Text to the
// domain.Transcriber port.
package speech

import (
	"context"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"eduverse/internal/config"
	"eduverse/internal/domain"
)

// GoogleTranscriber recognizes speech with the Cloud Speech v1 API.
type GoogleTranscriber struct {
	client *speech.Client
	cfg    config.SpeechConfig
}

var _ domain.Transcriber = (*GoogleTranscriber)(nil)

// NewGoogleTranscriber creates a Speech client using the configured
// credentials file, or application default credentials when none is set.
func NewGoogleTranscriber(ctx context.Context, cfg config.SpeechConfig) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, domain.NewError(domain.ErrConfiguration, "failed to create speech client", err)
	}
	return &GoogleTranscriber{client: client, cfg: cfg}, nil
}

// Transcribe recognizes the uploaded audio (LINEAR16 PCM) and joins the top
// alternative of each result with newlines.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(t.cfg.SampleRateHertz),
			LanguageCode:    t.cfg.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", classifyRecognizeError(err)
	}

	var parts []string
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		parts = append(parts, alts[0].GetTranscript())
	}
	return strings.Join(parts, "\n"), nil
}

// Close releases the underlying gRPC connection.
func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}

func classifyRecognizeError(err error) *domain.DomainError {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return domain.NewUpstreamError(domain.ErrUpstreamRateLimited, err)
	case codes.Unauthenticated, codes.PermissionDenied:
		return domain.NewUpstreamError(domain.ErrUpstreamAuth, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return domain.NewUpstreamError(domain.ErrUpstreamUnavailable, err)
	case codes.InvalidArgument:
		return domain.NewInvalidInputError("Failed to transcribe audio", err.Error())
	default:
		return domain.NewUpstreamError(domain.ErrUpstreamMalformed, err)
	}
}
