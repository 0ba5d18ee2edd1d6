package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/swiftride/backend/internal/api/handlers"
	"github.com/swiftride/backend/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// WebSocket connection
		v1.GET("/ws", h.HandleWebSocket)

		// Account endpoints
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/otp/send", h.SendOTP)
			auth.POST("/otp/verify", h.VerifyOTP)
			auth.POST("/login", h.Login)
		}

		// Navigation endpoints
		v1.POST("/route/calculate", h.CalculateRoute)
		v1.POST("/fare/estimate", h.EstimateFare)
		v1.GET("/drivers/nearby", h.NearbyDrivers)

		// Endpoints below require a session
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth(h.Auth))
		{
			authed.PUT("/driver/location", h.UpdateDriverLocation)

			ride := authed.Group("/ride")
			{
				ride.POST("/start", h.StartRide)
				ride.PUT("/end", h.EndRide)
				ride.POST("/cancel", h.CancelRide)
				ride.GET("/:id/status", h.GetRideStatus)
			}
		}
	}
}
