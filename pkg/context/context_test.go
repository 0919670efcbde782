package ctxutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewContextWithRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/login", nil)
	req.Header.Set("User-Agent", "unit-test")

	ctx := NewContextWithRequest(context.Background(), req, "handler", "Login")

	if got := GetModule(ctx); got != "handler" {
		t.Errorf("module = %q, want handler", got)
	}
	if got := GetFunction(ctx); got != "Login" {
		t.Errorf("function = %q, want Login", got)
	}
	if got := GetUserAgent(ctx); got != "unit-test" {
		t.Errorf("user agent = %q, want unit-test", got)
	}
	if GetClientIP(ctx) == "" {
		t.Error("expected client ip from RemoteAddr")
	}
	if GetStartTime(ctx).IsZero() {
		t.Error("expected start time to be set")
	}
}

func TestNewContextWithRequest_KeepsStartTime(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	ctx := context.WithValue(context.Background(), StartTimeKey, start)

	ctx = NewContextWithRequest(ctx, nil, "service", "Login")

	if !GetStartTime(ctx).Equal(start) {
		t.Error("expected existing start time to be preserved")
	}
	if GetDuration(ctx) < time.Minute {
		t.Error("expected duration measured from the original start time")
	}
}

func TestDetach(t *testing.T) {
	parent, cancel := context.WithCancel(WithRequestID(context.Background(), "req-1"))
	detached := Detach(parent)
	cancel()

	if !IsValidContext(detached) {
		t.Error("detached context should not be cancelled with its parent")
	}
	if GetRequestID(detached) != "req-1" {
		t.Error("detached context should keep request id")
	}
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || GetUserID(ctx) != "" || GetModule(ctx) != "" {
		t.Error("expected empty values on a bare context")
	}
	if GetDuration(ctx) != 0 {
		t.Error("expected zero duration without start time")
	}
}
