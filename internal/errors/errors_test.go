package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"duplicate phone", ErrDuplicatePhone, http.StatusBadRequest},
		{"invalid credentials", ErrInvalidCredentials, http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"invalid token", ErrInvalidToken, http.StatusUnauthorized},
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		{"partner not found", ErrPartnerNotFound, http.StatusNotFound},
		{"sink failure", ErrExternalSinkFailure, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("login: %w", WrapError(ErrInvalidToken, errors.New("expired"))), http.StatusUnauthorized},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTTPStatus(tt.err); got != tt.want {
				t.Errorf("ToHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := WrapError(ErrUserNotFound, errors.New("record not found"))
	if !errors.Is(wrapped, ErrUserNotFound) {
		t.Error("expected wrapped error to match ErrUserNotFound")
	}
	if errors.Is(wrapped, ErrDuplicatePhone) {
		t.Error("did not expect wrapped error to match ErrDuplicatePhone")
	}

	custom := WithMessage(ErrValidation, "Phone number must be 10 digits")
	if !errors.Is(custom, ErrValidation) {
		t.Error("expected message override to keep its code")
	}
	if GetErrorMessage(custom) != "Phone number must be 10 digits" {
		t.Errorf("unexpected message %q", GetErrorMessage(custom))
	}
}

func TestGetErrorMessage(t *testing.T) {
	if got := GetErrorMessage(nil); got != "" {
		t.Errorf("expected empty message, got %q", got)
	}
	if got := GetErrorMessage(WrapError(ErrInvalidCredentials, errors.New("bcrypt mismatch"))); got != "Invalid credentials" {
		t.Errorf("expected generic credential message, got %q", got)
	}
	if got := GetErrorMessage(errors.New("raw")); got != "raw" {
		t.Errorf("expected raw message, got %q", got)
	}
}
