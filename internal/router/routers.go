package router

import (
	"time"

	"github.com/Payphone-Digital/referral/config"
	"github.com/Payphone-Digital/referral/internal/handler"
	"github.com/Payphone-Digital/referral/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler       *handler.AuthHandler
	referralHandler   *handler.ReferralHandler
	submissionHandler *handler.SubmissionHandler
	healthHandler     *handler.HealthHandler

	validMw *middleware.ValidationMiddleware
	jwtMw   *middleware.JWTMiddleware
	Config  *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	referral *handler.ReferralHandler,
	submission *handler.SubmissionHandler,
	health *handler.HealthHandler,

	validMw *middleware.ValidationMiddleware,
	jwtMw *middleware.JWTMiddleware,
	config *config.Config,
) *Router {
	return &Router{
		authHandler:       auth,
		referralHandler:   referral,
		submissionHandler: submission,
		healthHandler:     health,

		validMw: validMw,
		jwtMw:   jwtMw,
		Config:  config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.DefaultContextMiddleware(r.Config.App.Timeout)...)
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORS(r.Config.CORS.AllowedOrigins))

	router.GET("/health", r.healthHandler.BasicHealth)

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		limited := api.Group("")
		limited.Use(middleware.RateLimit(r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))
		{
			r.authRoutes(limited)
			r.referralRoutes(limited)
			r.submissionRoutes(limited)
		}
	}

	return router
}
