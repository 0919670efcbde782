package handler

import (
	"net/http"

	"github.com/Payphone-Digital/referral/internal/constants"
	"github.com/Payphone-Digital/referral/internal/dto"
	"github.com/Payphone-Digital/referral/internal/service"
	ctxutil "github.com/Payphone-Digital/referral/pkg/context"
	"github.com/gin-gonic/gin"
)

// SubmissionHandler serves the public lead forms.
type SubmissionHandler struct {
	submissions *service.SubmissionService
}

func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) Quote(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Quote")

	var req dto.QuoteRequest
	if !bindJSON(ctx, c, &req) {
		return
	}
	id, err := h.submissions.SubmitQuote(ctx, &req)
	if err != nil {
		respondError(ctx, c, err, constants.MsgQuoteFailed)
		return
	}
	c.JSON(http.StatusOK, dto.SubmissionResponse{Message: constants.MsgQuoteSaved, ID: id})
}

func (h *SubmissionHandler) Application(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Application")

	var req dto.ApplicationRequest
	if !bindJSON(ctx, c, &req) {
		return
	}
	id, err := h.submissions.SubmitApplication(ctx, &req)
	if err != nil {
		respondError(ctx, c, err, constants.MsgApplicationFailed)
		return
	}
	c.JSON(http.StatusOK, dto.SubmissionResponse{Message: constants.MsgApplicationSaved, ID: id})
}

func (h *SubmissionHandler) Consultation(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Consultation")

	var req dto.ConsultationRequest
	if !bindJSON(ctx, c, &req) {
		return
	}
	id, err := h.submissions.SubmitConsultation(ctx, &req)
	if err != nil {
		respondError(ctx, c, err, constants.MsgConsultationFailed)
		return
	}
	c.JSON(http.StatusOK, dto.SubmissionResponse{Message: constants.MsgConsultationSaved, ID: id})
}

// InitSheets handles POST /api/init-sheets.
func (h *SubmissionHandler) InitSheets(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "InitSheets")

	managed, err := h.submissions.InitSheets(ctx)
	if err != nil {
		respondError(ctx, c, err, constants.MsgSheetsInitFailed)
		return
	}
	if !managed {
		c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgSheetsAdminDisabled))
		return
	}
	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgSheetsInitialized))
}
