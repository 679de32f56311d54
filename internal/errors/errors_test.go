package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMapping(t *testing.T) {
	cause := errors.New("HTTP error! status: 429")

	tests := []struct {
		name       string
		err        error
		wantType   ErrorType
		wantStatus int
		wantPublic string
	}{
		{"Missing image", NewMissingImageError(nil), ErrorTypeValidation, http.StatusBadRequest, "No image file uploaded"},
		{"Upstream failure", NewUpstreamError(cause), ErrorTypeUpstream, http.StatusInternalServerError, "Failed to analyze image"},
		{"Internal failure", NewInternalError(cause), ErrorTypeInternal, http.StatusInternalServerError, "Failed to analyze image"},
		{"Wrapped app error", fmt.Errorf("handler: %w", NewMissingImageError(nil)), ErrorTypeValidation, http.StatusBadRequest, "No image file uploaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsType(tt.err, tt.wantType) {
				t.Errorf("Expected type %s for %v", tt.wantType, tt.err)
			}
			if got := GetStatusCode(tt.err); got != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, got)
			}
			if got := PublicMessage(tt.err); got != tt.wantPublic {
				t.Errorf("Expected public message %q, got %q", tt.wantPublic, got)
			}
		})
	}
}

func TestPlainErrorDefaults(t *testing.T) {
	err := errors.New("boom")

	if GetStatusCode(err) != http.StatusInternalServerError {
		t.Errorf("Expected 500 for a plain error")
	}
	if PublicMessage(err) != MessageAnalysisFailed {
		t.Errorf("Expected the generic message for a plain error")
	}
	if IsType(err, ErrorTypeUpstream) {
		t.Errorf("Plain error must not match any type")
	}
}

func TestAppError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError(cause)

	if !errors.Is(err, cause) {
		t.Errorf("Expected errors.Is to find the cause")
	}
	want := "upstream: Failed to analyze image (caused by: connection refused)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
	if NewMissingImageError(nil).Error() != "validation: No image file uploaded" {
		t.Errorf("Unexpected message without cause: %q", NewMissingImageError(nil).Error())
	}
}
