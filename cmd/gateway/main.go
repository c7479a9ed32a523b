package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rovi1013/coap-telegram-gateway/internal/biz"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/domain"
	"github.com/rovi1013/coap-telegram-gateway/internal/biz/usecase"
	"github.com/rovi1013/coap-telegram-gateway/internal/conf"
	"github.com/rovi1013/coap-telegram-gateway/internal/data"
	"github.com/rovi1013/coap-telegram-gateway/internal/infra/telegram"
	"github.com/rovi1013/coap-telegram-gateway/internal/server"
	"github.com/rovi1013/coap-telegram-gateway/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize clients
	telegramClient := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken)

	// Initialize repository layer
	repos, err := data.NewRepositories(telegramClient, cfg.Archive.DBPath)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Archive.Close()

	fmt.Printf("[Gateway] Archive DB: %s\n", cfg.Archive.DBPath)

	// Engine-owned state: roster, settings, dedup filter
	registry := domain.NewSubscriberRegistry()
	for _, sub := range cfg.Telegram.SeedRoster {
		if registry.TryAdd(sub.ID, sub.Name) == domain.CapacityReached {
			log.Printf("Seed roster exceeds %d chats, dropping %s", domain.MaxSubscribers, sub.ID)
		}
	}
	settings := domain.NewConfigStore(cfg.Engine.DefaultInterval, cfg.Engine.DefaultFeedback)
	filter := domain.NewDedupFilter(time.Now())

	fmt.Printf("[Gateway] Roster seeded with %d chats, interval %dm, feedback %v\n",
		registry.Len(), settings.Interval(), settings.Feedback())

	// Initialize usecase layer
	notifier := service.NewNotifier(repos.Message)
	usecases := &biz.Usecases{
		Reconciler: usecase.NewReconciler(
			repos.Feed,
			repos.Archive,
			notifier,
			registry,
			settings,
			filter,
			usecase.ReconcilerConfig{
				Password:     cfg.Engine.Password,
				FetchTimeout: cfg.Engine.FetchTimeout,
			},
		),
		Relay: usecase.NewRelay(repos.Message, registry),
	}

	// Initialize servers
	coapServer := server.NewCoAPServer(cfg.CoAP.ListenAddr, usecases.Relay, usecases.Reconciler)
	httpServer := server.NewHTTPServer(cfg.HTTP.ListenAddr, repos.Message, usecases.Reconciler, repos.Archive)

	errCh := make(chan error, 2)
	go func() { errCh <- coapServer.Start() }()
	go func() { errCh <- httpServer.Start() }()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		fmt.Printf("\n[Gateway] Received %v, shutting down...\n", sig)
	case err := <-errCh:
		log.Printf("Server stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}

	fmt.Println("[Gateway] Stopped")
}
