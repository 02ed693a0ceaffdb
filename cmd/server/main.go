package main

import (
	"context"
	"log"

	"bbscope/internal/config"
	"bbscope/internal/database"
	"bbscope/internal/handlers"
	"bbscope/internal/services"
	"bbscope/internal/telemetry"
	"bbscope/internal/web"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Tracing
	tp, shutdownTracing, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("Warning: failed to flush traces: %v", err)
		}
	}()

	// 3. Init DB
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Warning: failed to close DB: %v", err)
		}
	}()

	scopeSvc := services.NewScopeService(db, services.WithTracerProvider(tp))

	// 4. API Server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	handlers.RegisterRoutes(e, scopeSvc, web.NewValidator())
	handlers.NewHealthHandler(cfg.ServiceName, cfg.Version, scopeSvc).RegisterRoutes(e)

	log.Printf("%s (%s, %s, tracing=%s) starting on %s...", cfg.ServiceName, cfg.Version, cfg.DatabaseDriver, cfg.TraceExporter, cfg.ListenAddr)
	if err := e.Start(cfg.ListenAddr); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
