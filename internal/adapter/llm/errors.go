package llm

import (
	"context"
	"errors"
	"net"
	"strings"

	"eduverse/internal/domain"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClassifyUpstreamError maps a provider client error onto the upstream error
// taxonomy so handlers and logs can distinguish rate limiting, auth failures
// and plain unavailability. Providers surface errors either as gRPC statuses
// (Gemini) or as HTTP-status-bearing messages (OpenAI), so both are checked.
func ClassifyUpstreamError(err error) *domain.DomainError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamError(domain.ErrUpstreamUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.NewUpstreamError(domain.ErrUpstreamUnavailable, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.NewUpstreamError(domain.ErrUpstreamUnavailable, err)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.ResourceExhausted:
			return domain.NewUpstreamError(domain.ErrUpstreamRateLimited, err)
		case codes.Unauthenticated, codes.PermissionDenied:
			return domain.NewUpstreamError(domain.ErrUpstreamAuth, err)
		case codes.Unavailable, codes.DeadlineExceeded:
			return domain.NewUpstreamError(domain.ErrUpstreamUnavailable, err)
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota"):
		return domain.NewUpstreamError(domain.ErrUpstreamRateLimited, err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "unauthorized") || strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "api key"):
		return domain.NewUpstreamError(domain.ErrUpstreamAuth, err)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout"):
		return domain.NewUpstreamError(domain.ErrUpstreamUnavailable, err)
	}

	return domain.NewUpstreamError(domain.ErrUpstreamMalformed, err)
}
