// Package server hosts the pre-built documentation site.
//
// Known application routes map to their own HTML entry points; everything else
// is served from the build directory when the file exists and otherwise falls
// back to the top-level entry point so client-side routing can take over.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/physai-textbook/docsite/internal/config"
)

// Server represents the HTTP server
type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  zerolog.Logger
	assets  *assets
	version string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	buildDir, err := filepath.Abs(cfg.Server.BuildDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve build directory: %w", err)
	}

	server := &Server{
		config:  cfg,
		logger:  zlog,
		assets:  newAssets(buildDir),
		version: version,
	}

	// A missing build is not fatal: requests simply end in not-found
	if !server.assets.present() {
		zlog.Warn().Str("build_dir", buildDir).Msg("Build output not found - every request will return 404 until the site is built")
	}

	if err := server.setupRouter(); err != nil {
		return nil, err
	}

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() error {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Trailing-slash paths are resolved by the static fallback instead of redirected
	s.router.RedirectTrailingSlash = false

	corsCfg, extraHeaders, corsEnabled := corsFromHeaders(s.config.Server.Headers)
	if corsEnabled {
		if err := corsCfg.Validate(); err != nil {
			return fmt.Errorf("invalid CORS headers in site config: %w", err)
		}
	}

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(securityHeadersMiddleware())
	if len(extraHeaders) > 0 {
		s.router.Use(staticHeadersMiddleware(extraHeaders))
	}
	if corsEnabled {
		s.router.Use(cors.New(corsCfg))
	}
	if s.config.Server.Compress {
		s.router.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// Application entry points
	for _, ep := range entryPoints {
		handler := s.assets.serveEntry(ep.File)
		s.router.GET(ep.Route, handler)
		s.router.HEAD(ep.Route, handler)
	}

	// Static files, then the top-level entry point for client-side routing
	s.router.NoRoute(s.assets.serveFallback)

	return nil
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey)).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	build := "present"
	if !s.assets.present() {
		build = "missing"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "docsite",
		"version":   s.version,
		"build":     build,
	})
}

// Handler returns the root handler, instrumented for tracing
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "docsite-server")
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	addr := s.config.Server.Addr()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", addr).
			Str("url", fmt.Sprintf("http://%s", addr)).
			Str("build_dir", s.assets.root).
			Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		s.logger.Error().Err(err).Msg("HTTP server error")
		return err
	case <-sigChan:
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
