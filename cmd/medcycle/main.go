package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/teodorv/medcycle/chat"
	"github.com/teodorv/medcycle/config"
	"github.com/teodorv/medcycle/geo"
	"github.com/teodorv/medcycle/llm"
	"github.com/teodorv/medcycle/providers"
	"github.com/teodorv/medcycle/server"
	"github.com/teodorv/medcycle/utils"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	logger := utils.NewLogger(cfg.LogLevel)

	registry := providers.NewRegistry()
	llmClient, err := llm.NewClient(cfg, logger, registry)
	if err != nil {
		log.Fatalf("llm client error: %v", err)
	}

	geoClient := geo.NewClient(cfg.GeocodeEndpoint, cfg.OverpassEndpoint, logger)

	sessionStore := chat.NewMemoryStore()
	chatService := chat.NewService(llmClient, sessionStore, cfg.SessionIdleTimeout, cfg.MemoryTokens, cfg.Model, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chatService.StartSweeper(ctx, cfg.SweepInterval)

	srv := server.New(cfg, llmClient, geoClient, chatService, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	logger.Info("medcycle listening", "port", cfg.Port, "provider", cfg.Provider, "model", cfg.Model)
	waitForShutdown(httpServer, cancel)
}

func waitForShutdown(server *http.Server, cancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
