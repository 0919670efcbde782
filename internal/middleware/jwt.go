package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/internal/service"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorizer is the access check the middleware delegates to.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (service.Decision, error)
}

type JWTMiddleware struct {
	gate Authorizer
}

func NewJWTMiddleware(gate Authorizer) *JWTMiddleware {
	return &JWTMiddleware{gate: gate}
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer
// token. On success the user id and raw token are stored on the gin context.
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader(constants.HeaderAuthorization))

		decision, err := m.gate.Authorize(c.Request.Context(), token)
		if err != nil {
			msg := constants.MsgInvalidToken
			if errors.Is(err, apperrors.ErrUnauthorized) {
				msg = constants.MsgNoToken
			}
			logger.GetLogger().Warn("Request rejected by auth gate",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.String("state", decision.State.String()),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(msg))
			return
		}

		setIdentity(c, decision.UserID, token)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// the request through either way.
func (m *JWTMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader(constants.HeaderAuthorization))
		if token == "" {
			c.Next()
			return
		}

		decision, err := m.gate.Authorize(c.Request.Context(), token)
		if err == nil && decision.Authorized() {
			setIdentity(c, decision.UserID, token)
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, userID, token string) {
	c.Set(constants.GinKeyUserID, userID)
	c.Set(constants.GinKeyToken, token)
	c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), userID))
}

// BearerToken extracts the token from an Authorization header value. It
// returns "" when the header is missing or uses another scheme.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, constants.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
