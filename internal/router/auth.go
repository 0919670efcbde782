package router

import (
	"github.com/Payphone-Digital/referral/internal/dto"
	"github.com/gin-gonic/gin"
)

func (r *Router) authRoutes(api *gin.RouterGroup) {
	api.POST("/register", r.validMw.ValidateRequestBody(func() any { return &dto.RegisterRequest{} }), r.authHandler.Register)
	api.POST("/login", r.validMw.ValidateRequestBody(func() any { return &dto.LoginRequest{} }), r.authHandler.Login)

	// Logout works without a token; one that is present gets revoked.
	api.POST("/logout", r.jwtMw.OptionalAuth(), r.authHandler.Logout)

	protected := api.Group("")
	protected.Use(r.jwtMw.RequireAuth())
	{
		protected.GET("/profile", r.authHandler.Profile)
	}
}
