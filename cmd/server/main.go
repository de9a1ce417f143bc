package main

import (
	"fmt"
	"log"
	"time"

	"cmcount/internal/auth"
	"cmcount/internal/config"
	"cmcount/internal/database"
	"cmcount/internal/options"
	"cmcount/internal/realtime"
	"cmcount/internal/routes"
	"cmcount/internal/subscribers"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.CampaignMonitor.InsecureSkipVerify {
		log.Println("WARNING: TLS verification for the Campaign Monitor API is disabled")
	}
	if cfg.Cache.TTLSeconds == 0 {
		log.Println("WARNING: CMCOUNT_CACHE_SECONDS=0 polls upstream on almost every request")
	}

	db, err := database.Open(cfg.Database.Path, cfg.Debug)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	settings := cfg.Subscribers()
	store := options.NewGormStore(db, cfg.Database.OptionCacheTTL)
	hub := realtime.NewHub()
	refresher := subscribers.NewRefresher(settings, store, subscribers.NewClient(settings), time.Now, hub)
	gate := subscribers.NewGate(settings, store, refresher, time.Now)

	if cfg.Admin.PasswordHash == "" {
		log.Println("ADMIN_PASSWORD_HASH is empty; operator login is disabled")
	}

	ginRoutes := routes.SetupRoutes(routes.Deps{
		Gate:              gate,
		Refresher:         refresher,
		Hub:               hub,
		Issuer:            auth.NewIssuer(cfg.Admin.JWTSecret),
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		DefaultDisplay:    int64(cfg.Cache.DefaultDisplay),
	})

	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on port %s (list=%s, ttl=%ds)", port, settings.ListID, settings.TTLSeconds)
	log.Println("API endpoints:")
	log.Println("  GET    /")
	log.Println("  GET    /api/subscribers")
	log.Println("  GET    /api/subscribers/ws")
	log.Println("  POST   /api/admin/login")
	log.Println("  GET    /api/admin/status")
	log.Println("  POST   /api/admin/refresh")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
