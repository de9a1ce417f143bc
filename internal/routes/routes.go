package routes

import (
	"cmcount/internal/auth"
	"cmcount/internal/handlers"
	"cmcount/internal/middleware"
	"cmcount/internal/realtime"
	"cmcount/internal/subscribers"

	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Gate      *subscribers.Gate
	Refresher subscribers.RefreshRunner
	Hub       *realtime.Hub
	Issuer    *auth.Issuer

	AdminUsername     string
	AdminPasswordHash string
	DefaultDisplay    int64
}

func SetupRoutes(d Deps) *gin.Engine {
	ginRouter := gin.Default()
	ginRouter.SetHTMLTemplate(handlers.PageTemplate())

	ginRouter.Use(middleware.CORS())

	// Health check stays off the gate so probes never poll upstream
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Subscriber count service is running",
		})
	})

	subscriberHandler := handlers.NewSubscriberHandler(d.Gate, d.DefaultDisplay)
	liveHandler := handlers.NewLiveHandler(d.Hub, d.Gate)
	adminHandler := handlers.NewAdminHandler(d.Gate, d.Refresher, d.Issuer, d.AdminUsername, d.AdminPasswordHash)

	// Page routes: every request runs the refresh gate first
	gated := ginRouter.Group("")
	gated.Use(middleware.RefreshGate(d.Gate))
	{
		gated.GET("/", subscriberHandler.Page)
		gated.GET("/api/subscribers", subscriberHandler.GetCount)
		gated.GET("/api/subscribers/ws", liveHandler.Stream)
	}

	admin := ginRouter.Group("/api/admin")
	{
		admin.POST("/login", adminHandler.Login)
	}

	protectedRoutes := admin.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(d.Issuer))
	{
		protectedRoutes.GET("/status", adminHandler.Status)
		protectedRoutes.POST("/refresh", adminHandler.Refresh)
	}

	return ginRouter
}
