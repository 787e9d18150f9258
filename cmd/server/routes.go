package main

import (
	"github.com/gin-gonic/gin"
	"github.com/projhub/backend/internal/middleware"
	"github.com/projhub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	loginLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "projhub"})
	})

	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		api.POST("/auth/login", loginLimiter.Middleware(), svc.authHandler.Login)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.RequestLog())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Projects and the creation wizard
			protected.GET("/projects", svc.projHandler.List)
			protected.POST("/projects", svc.projHandler.Create)
			protected.GET("/projects/:uuid", svc.projHandler.Get)
			protected.PUT("/projects/:uuid", svc.projHandler.Update)
			protected.PUT("/projects/:uuid/metadata", svc.projHandler.UpdateMetadata)
			protected.GET("/projects/:uuid/team", svc.projHandler.ListTeam)
			protected.PUT("/projects/:uuid/team", svc.projHandler.UpdateTeam)
			protected.PUT("/projects/:uuid/phases", svc.projHandler.UpdatePhases)
			protected.POST("/projects/:uuid/publish", svc.projHandler.Publish)
			protected.GET("/projects/:uuid/progress", svc.projHandler.GetProgress)
			protected.GET("/projects/:uuid/audit", svc.projHandler.ListAudit)
			protected.DELETE("/attachments/:id", svc.projHandler.RemoveAttachment)

			// Archival workflow
			protected.POST("/projects/:uuid/archival-requests", svc.archHandler.RequestArchival)
			protected.GET("/archival-requests", svc.archHandler.ListRequests)
			protected.POST("/archival-requests/:id/approve", svc.archHandler.Approve)
			protected.POST("/archival-requests/:id/deny", svc.archHandler.Deny)
			protected.POST("/projects/:uuid/archive", svc.archHandler.Archive)
			protected.POST("/projects/:uuid/reactivation-requests", svc.archHandler.RequestReactivation)

			// Notifications
			protected.GET("/notifications", svc.notifHandler.List)
			protected.PUT("/notifications/:id/read", svc.notifHandler.MarkRead)

			// Users (listing is open so students can pick team members)
			protected.GET("/users", svc.userHandler.List)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.AdminRequired())
			{
				admin.POST("/projects/:uuid/reactivate", svc.archHandler.Reactivate)
				admin.DELETE("/projects/:uuid", svc.archHandler.Delete)

				admin.POST("/users", svc.userHandler.Create)
				admin.PUT("/users/:uuid", svc.userHandler.Update)

				admin.GET("/system-logs", svc.logHandler.List)
				admin.GET("/system-logs/modules", svc.logHandler.GetModules)
			}
		}
	}
}
