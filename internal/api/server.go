// Package api wires the relay's HTTP surface: route table, middleware, and
// server lifecycle.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oremus-labs/token-relay/internal/handlers"
)

// Options configures the HTTP server wiring.
type Options struct {
	// StaticDir holds the demo pages and assets.
	StaticDir string
	// Debug keeps gin in debug mode.
	Debug bool
}

// Server wraps the Gin engine and associated configuration.
type Server struct {
	engine *gin.Engine
}

// NewServer constructs a Server with all HTTP routes configured.
func NewServer(handler *handlers.Handler, opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware(), metricsMiddleware(), requestLogger())

	// Health + meta
	engine.GET("/healthz", handler.Health)
	engine.GET("/openapi", handler.OpenAPISpec)
	engine.GET("/docs", handler.APIDocs)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Pages + assets
	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	engine.Static("/static", staticDir)
	engine.GET("/", handler.IndexPage)
	engine.GET("/ai", handler.RelayPage)

	// Demo streaming (canned text, no upstream call)
	engine.GET("/stream", handler.DemoStream)
	engine.GET("/ws", handler.DemoSocket)

	// Relay bindings
	engine.POST("/ai/stream", handler.RelayStream)
	engine.GET("/ai/ws", handler.RelaySocket)
	engine.POST("/ai/nostream", handler.RelayUnary)
	engine.GET("/ai/test", handler.Probe)

	return &Server{engine: engine}
}

// Engine exposes the underlying Gin engine for advanced use (testing, etc.).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start launches the HTTP server on the provided address. The write timeout
// stays unset: the push-stream and socket bindings hold their response open
// for the lifetime of a generation.
func (s *Server) Start(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	return srv
}
