package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxcal-backend/internal/auth/delivery"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	requireSession := delivery.AuthMiddleware(h.authUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.GET("/google", h.authHandler.GoogleLogin)
			auth.GET("/callback/google", h.authHandler.GoogleCallback)
			auth.POST("/logout", h.authHandler.Logout)
		}

		api.GET("/user", requireSession, h.authHandler.Me)

		// Sync routes (protected); each request runs one full cycle
		sync := api.Group("/sync")
		sync.Use(requireSession)
		{
			sync.POST("/gmail", h.syncHandler.SyncGmail)
			sync.POST("/calendar", h.syncHandler.SyncCalendar)
			sync.GET("/status", h.syncHandler.Status)
		}

		// Email routes (protected)
		emails := api.Group("/emails")
		emails.Use(requireSession)
		{
			emails.GET("", h.emailHandler.ListEmails)
			emails.GET("/:messageId", h.emailHandler.GetEmail)
		}

		// Calendar routes (protected)
		api.GET("/events", requireSession, h.calendarHandler.ListEvents)
	}
}
