package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/service"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGate struct {
	tokens map[string]string
}

func (g fakeGate) Authorize(_ context.Context, token string) (service.Decision, error) {
	if token == "" {
		return service.Decision{State: service.StateUnauthenticated}, apperrors.ErrUnauthorized
	}
	if id, ok := g.tokens[token]; ok {
		return service.Decision{UserID: id, State: service.StateAuthorized}, nil
	}
	return service.Decision{State: service.StateRejected}, apperrors.ErrInvalidToken
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/p", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(constants.GinKeyUserID),
			"ctx":     ctxutil.GetUserID(c.Request.Context()),
		})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	mw := NewJWTMiddleware(fakeGate{tokens: map[string]string{"good": "u-1"}})
	r := authRouter(mw.RequireAuth())

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, constants.MsgNoToken},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, constants.MsgNoToken},
		{"bad token", "Bearer nope", http.StatusUnauthorized, constants.MsgInvalidToken},
		{"good token", "Bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeMessage(t, w))
			}
		})
	}
}

func TestRequireAuth_SetsIdentity(t *testing.T) {
	mw := NewJWTMiddleware(fakeGate{tokens: map[string]string{"good": "u-1"}})
	r := authRouter(mw.RequireAuth())

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body["user_id"])
	assert.Equal(t, "u-1", body["ctx"])
}

func TestOptionalAuth(t *testing.T) {
	mw := NewJWTMiddleware(fakeGate{tokens: map[string]string{"good": "u-1"}})
	r := authRouter(mw.OptionalAuth())

	for header, want := range map[string]string{
		"":            "",
		"Bearer nope": "",
		"Bearer good": "u-1",
	} {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, header)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, want, body["user_id"], header)
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("  bearer   abc "))
	assert.Equal(t, "", BearerToken("Bearer"))
	assert.Equal(t, "", BearerToken("Token abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestValidateRequestBody(t *testing.T) {
	vm := NewValidationMiddleware()
	r := gin.New()
	r.POST("/login", vm.ValidateRequestBody(func() any { return &dto.LoginRequest{} }), func(c *gin.Context) {
		var req dto.LoginRequest
		require.NoError(t, c.ShouldBindJSON(&req))
		c.JSON(http.StatusOK, gin.H{"phone": req.Phone})
	})

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"empty body", "", http.StatusBadRequest, constants.MsgPhonePasswordRequired},
		{"missing password", `{"phone":"9876543210"}`, http.StatusBadRequest, constants.MsgPhonePasswordRequired},
		{"short phone", `{"phone":"98765","password":"x"}`, http.StatusBadRequest, constants.MsgPhoneFormat},
		{"malformed json", `{"phone":`, http.StatusBadRequest, constants.MsgBadRequest},
		{"valid", `{"phone":"9876543210","password":"x"}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeMessage(t, w))
			} else {
				assert.Contains(t, w.Body.String(), "9876543210")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000", "https://*.netlify.app"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:3000", true},
		{"https://insu-raksha.netlify.app", true},
		{"https://netlify.app.evil.com", false},
		{"http://insu-raksha.netlify.app", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", tt.origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get("Access-Control-Allow-Origin")
		if tt.allowed {
			assert.Equal(t, tt.origin, got, tt.origin)
		} else {
			assert.Empty(t, got, tt.origin)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter_Window(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, remaining := rl.Allow("1.2.3.4")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = rl.Allow("1.2.3.4")
	assert.False(t, ok)

	ok, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "limits are per key")

	now = now.Add(time.Minute)
	ok, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "window should have slid")
}

func TestRateLimit_Responds429(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, constants.MsgTooManyRequests, decodeMessage(t, w))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, ctxutil.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-7", w.Body.String())
	assert.Equal(t, "req-7", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, constants.MsgInternalError, decodeMessage(t, w))
}
