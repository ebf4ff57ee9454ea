package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"offline-traffic-bot/internal/bootstrap"
	"offline-traffic-bot/internal/config"
	"offline-traffic-bot/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, cfg)
	defer container.Logger.Sync()

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Analytics Consumer...")
		if err := container.AnalyticsService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Review Server
	srv := server.New(cfg, container)
	go func() {
		log.Printf("Review server on http://localhost:%s", cfg.App.Port)
		if err := srv.Run(); err != nil {
			log.Printf("Review Server Error: %v", err)
		}
	}()

	// 5. Run Bot (blocks until shutdown signal)
	if err := container.TelegramBot.Start(ctx); err != nil {
		log.Printf("Bot Error: %v", err)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("Server Shutdown Error: %v", err)
	}
}
