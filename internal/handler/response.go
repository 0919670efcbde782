package handler

import (
	"context"
	"net/http"

	"github.com/Payphone-Digital/referral/internal/constants"
	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError writes err as {message}. Server-side failures never leak
// their cause; they answer with fallback instead.
func respondError(ctx context.Context, c *gin.Context, err error, fallback string) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)

	if status >= http.StatusInternalServerError {
		logger.ErrorWithContext(ctx, "Request failed").
			Path(c.Request.URL.Path).
			StatusCode(status).
			Err(err).
			Log()
		message = fallback
	}

	c.JSON(status, constants.BuildErrorResponse(message))
}

// bindJSON decodes the body and answers 400 when it is not JSON. Field rules
// are enforced by the validation middleware and again by the services.
func bindJSON(ctx context.Context, c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.WarnWithContext(ctx, "Invalid request body").Err(err).Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
		return false
	}
	return true
}

func currentUserID(c *gin.Context) string {
	return c.GetString(constants.GinKeyUserID)
}
