package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Outward messages. These are the only error texts a caller ever sees.
const (
	MessageNoImage        = "No image file uploaded"
	MessageAnalysisFailed = "Failed to analyze image"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewMissingImageError is returned when a request carries no image file.
func NewMissingImageError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    MessageNoImage,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewUpstreamError wraps failures of the chat-completion call.
func NewUpstreamError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstream,
		Message:    MessageAnalysisFailed,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInternalError wraps failures that happen on our side of the call.
func NewInternalError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    MessageAnalysisFailed,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text that may be shown to a caller for err.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return MessageAnalysisFailed
}
