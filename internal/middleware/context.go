package middleware

import (
	"context"
	"time"

	"github.com/Payphone-Digital/referral/internal/constants"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDMiddleware reuses an incoming X-Request-ID (or correlation id)
// and mints one otherwise. The id is echoed on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = c.GetHeader(constants.HeaderXCorrelationID)
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := ctxutil.WithRequestID(c.Request.Context(), requestID)
		ctx = context.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = context.WithValue(ctx, ctxutil.StartTimeKey, time.Now())

		c.Header(constants.HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestTimeoutMiddleware bounds the request context. Handlers and the
// services below them observe the deadline.
func RequestTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := ctxutil.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// DefaultContextMiddleware is the chain every route gets.
func DefaultContextMiddleware(timeout time.Duration) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		RequestIDMiddleware(),
		RequestTimeoutMiddleware(timeout),
	}
}
