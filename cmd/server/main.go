// Package main is the entry point for the token relay service.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oremus-labs/token-relay/config"
	"github.com/oremus-labs/token-relay/internal/api"
	"github.com/oremus-labs/token-relay/internal/handlers"
	"github.com/oremus-labs/token-relay/internal/upstream"
	"github.com/oremus-labs/token-relay/internal/validator"
)

const (
	version         = "1.2.0-go"
	shutdownTimeout = 5 * time.Second
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting Token Relay v%s", version)

	cfg := config.Load()
	log.Printf("Configuration loaded - Port: %s, Static: %s, Model: %s",
		cfg.ServerPort, cfg.StaticDir, cfg.OpenAIModel)

	// The relay starts and serves with no upstream configured; the relay
	// endpoints reject with 503 until a key is provided.
	var provider upstream.Provider
	if cfg.OpenAIAPIKey != "" {
		p, err := upstream.NewOpenAI(upstream.OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			log.Fatalf("Failed to initialize generation provider: %v", err)
		}
		provider = p
	} else {
		log.Println("OPENAI_API_KEY not set; relay endpoints will answer 503")
	}

	questionValidator, err := validator.New()
	if err != nil {
		log.Fatalf("Failed to compile request schema: %v", err)
	}

	h := handlers.New(upstream.New(provider), questionValidator, handlers.Options{
		StaticDir:   cfg.StaticDir,
		DemoCadence: cfg.DemoCadence,
	})

	server := api.NewServer(h, api.Options{
		StaticDir: cfg.StaticDir,
		Debug:     cfg.Debug,
	})

	srv := server.Start(":" + cfg.ServerPort)
	log.Printf("Server listening on :%s", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}
