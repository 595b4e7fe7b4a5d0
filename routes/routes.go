package routes

import (
	"thesis-management-api/controllers"
	"thesis-management-api/middleware"
	"thesis-management-api/models"
	"thesis-management-api/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)
			public.POST("/forgot-password", controllers.ForgotPassword)
			public.POST("/reset-password", controllers.ResetPassword)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Thesis Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Title requests
			titles := protected.Group("/title-requests")
			{
				titles.GET("", controllers.GetTitleRequests)
				titles.GET("/:id", controllers.GetTitleRequest)
				titles.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateTitleRequest)
				titles.PUT("/:id/assignment", middleware.RequireRole(models.RoleChair),
					controllers.UpdateAssignment(services.KindTitleRequest))
				titles.PATCH("/:id/status", middleware.RequireRole(models.RoleStaff, models.RoleChair),
					controllers.UpdateSubmissionStatus(services.KindTitleRequest))
			}

			// Proposal defenses
			proposals := protected.Group("/proposal-defenses")
			{
				proposals.GET("", controllers.GetProposalDefenses)
				proposals.GET("/:id", controllers.GetProposalDefense)
				proposals.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateProposalDefense)
				proposals.PUT("/:id/assignment", middleware.RequireRole(models.RoleChair),
					controllers.UpdateAssignment(services.KindProposalDefense))
				proposals.PATCH("/:id/status", middleware.RequireRole(models.RoleStaff, models.RoleChair),
					controllers.UpdateSubmissionStatus(services.KindProposalDefense))
			}

			// Final defenses
			finals := protected.Group("/final-defenses")
			{
				finals.GET("", controllers.GetFinalDefenses)
				finals.GET("/:id", controllers.GetFinalDefense)
				finals.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateFinalDefense)
				finals.PUT("/:id/assignment", middleware.RequireRole(models.RoleChair),
					controllers.UpdateAssignment(services.KindFinalDefense))
				finals.PATCH("/:id/status", middleware.RequireRole(models.RoleStaff, models.RoleChair),
					controllers.UpdateSubmissionStatus(services.KindFinalDefense))
			}

			// In-app notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Generic status route shared by admin tooling
			protected.PATCH("/submissions/:kind/:id/status",
				middleware.RequireRole(models.RoleStaff, models.RoleChair),
				controllers.UpdateSubmissionStatusByKind)

			// Official letters
			protected.GET("/documents/:kind/:id", controllers.GetDocument)
		}
	}
}
