package middleware

import (
	"errors"
	"net/http"

	"eduverse/internal/domain"
	"eduverse/internal/dto"
	"eduverse/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler converts errors escaping the handlers into the uniform
// {error, details?} response body. Wire it as fiber.Config.ErrorHandler.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			logFn := logger.Get().Error
			if statusCode < http.StatusInternalServerError {
				logFn = logger.Get().Warn
			}
			logFn("Request failed",
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.String("path", c.Path()),
				zap.Int("status", statusCode),
				zap.Error(domainErr.Cause),
			)

			return c.Status(statusCode).JSON(dto.ErrorResponse{
				Error:   domainErr.Message,
				Details: domainErr.Details,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			logger.Get().Warn("HTTP error",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
				zap.String("path", c.Path()),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
				Error: fiberErr.Message,
			})
		}

		// Unknown error: never leak internals to the client.
		logger.Get().Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain error codes to HTTP status codes.
// Input and upload errors are the client's to correct (400); configuration,
// upstream and parse failures are ours (500).
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrInvalidInput, domain.ErrUnsupportedFileType, domain.ErrEmptyContent,
		domain.ErrPdfProcessing, domain.ErrFileTooLarge:
		return http.StatusBadRequest
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrConfiguration, domain.ErrUpstreamUnavailable, domain.ErrUpstreamRateLimited,
		domain.ErrUpstreamAuth, domain.ErrUpstreamMalformed, domain.ErrMalformedOutput:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
