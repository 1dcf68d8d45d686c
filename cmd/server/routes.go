package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Identity is established once per request; route groups below decide
	// whether anonymous is acceptable.
	r.Use(middleware.Authenticate(svc.tokens, svc.ledger))

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", handlers.Health)

	// Auth routes (public)
	auth := r.Group("/auth", authLimiter.Middleware())
	{
		auth.POST("/login", svc.authHandler.Login)
		auth.POST("/refresh", svc.authHandler.Refresh)
		auth.POST("/logout", svc.authHandler.Logout)
		auth.GET("/config", svc.authHandler.GetAuthConfig)
	}

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/auth/me", svc.authHandler.GetCurrentUser)

		api := protected.Group("/api")
		api.GET("/tasks", svc.taskHandler.List)
		api.GET("/tasks/completed", svc.taskHandler.ListCompleted)
		api.GET("/tasks/date/:date", svc.taskHandler.ListByDate)
		api.POST("/tasks", svc.taskHandler.Create)
		api.PUT("/tasks/:id", svc.taskHandler.Update)
		api.DELETE("/tasks/:id", svc.taskHandler.Delete)
	}
}
