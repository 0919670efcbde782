package router

import (
	"github.com/Payphone-Digital/referral/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) referralRoutes(api *gin.RouterGroup) {
	api.GET("/commission-info", r.jwtMw.OptionalAuth(), r.referralHandler.CommissionInfo)

	api.POST("/track-referral",
		r.jwtMw.RequireAuth(),
		r.validMw.ValidateRequestBody(func() any { return &dto.TrackReferralRequest{} }),
		r.referralHandler.TrackReferral,
	)
}

func (r *Router) submissionRoutes(api *gin.RouterGroup) {
	api.POST("/quote", r.validMw.ValidateRequestBody(func() any { return &dto.QuoteRequest{} }), r.submissionHandler.Quote)
	api.POST("/application", r.validMw.ValidateRequestBody(func() any { return &dto.ApplicationRequest{} }), r.submissionHandler.Application)
	api.POST("/consultation", r.validMw.ValidateRequestBody(func() any { return &dto.ConsultationRequest{} }), r.submissionHandler.Consultation)
	api.POST("/init-sheets", r.submissionHandler.InitSheets)
}
