package domain

import (
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrConfiguration ErrorCode = "CONFIGURATION_ERROR"

	// Upstream generative-AI errors
	ErrUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrUpstreamRateLimited ErrorCode = "UPSTREAM_RATE_LIMITED"
	ErrUpstreamAuth        ErrorCode = "UPSTREAM_AUTH_ERROR"
	ErrUpstreamMalformed   ErrorCode = "UPSTREAM_MALFORMED_RESPONSE"

	// Model produced unparsable or invalid-shape content
	ErrMalformedOutput ErrorCode = "MALFORMED_OUTPUT"

	// Upload-specific errors
	ErrUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	ErrEmptyContent        ErrorCode = "EMPTY_CONTENT"
	ErrPdfProcessing       ErrorCode = "PDF_PROCESSING_ERROR"
	ErrFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for common cases

func NewInvalidInputError(message, details string) *DomainError {
	return &DomainError{Code: ErrInvalidInput, Message: message, Details: details}
}

func NewMissingFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrInvalidInput,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewConfigurationError(message string) *DomainError {
	return &DomainError{Code: ErrConfiguration, Message: message}
}

func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{Code: ErrInternal, Message: message, Cause: cause}
}

func NewMalformedOutputError(details string, cause error) *DomainError {
	return &DomainError{
		Code:    ErrMalformedOutput,
		Message: "Failed to generate valid quiz questions. Please try again.",
		Details: details,
		Cause:   cause,
	}
}

func NewUnsupportedFileTypeError(mimeType string) *DomainError {
	return &DomainError{
		Code:    ErrUnsupportedFileType,
		Message: "Unsupported file type",
		Details: fmt.Sprintf("File type %s is not supported. Please use PDF, TXT, DOC, or DOCX files.", mimeType),
	}
}

func NewEmptyContentError() *DomainError {
	return &DomainError{
		Code:    ErrEmptyContent,
		Message: "Empty content",
		Details: "No readable text found in the file",
	}
}

func NewPdfProcessingError(cause error) *DomainError {
	return &DomainError{
		Code:    ErrPdfProcessing,
		Message: "Failed to process PDF",
		Details: "Could not extract text from the PDF file",
		Cause:   cause,
	}
}

func NewFileTooLargeError(maxBytes int) *DomainError {
	return &DomainError{
		Code:    ErrFileTooLarge,
		Message: "File too large",
		Details: fmt.Sprintf("Uploaded file exceeds the %d byte limit", maxBytes),
	}
}

func NewUpstreamError(code ErrorCode, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: "AI service request failed",
		Cause:   cause,
	}
}
