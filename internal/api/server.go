// Package api exposes the HTTP surface: ranked search, search history,
// health, and the WebSocket event stream.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/tunestream/tunestream/internal/config"
	"github.com/tunestream/tunestream/internal/history"
	"github.com/tunestream/tunestream/internal/search"
	"github.com/tunestream/tunestream/internal/upstream"
	"github.com/tunestream/tunestream/internal/websocket"
)

// Server handles HTTP requests for the TuneStream API.
type Server struct {
	echo   *echo.Echo
	hub    *websocket.Hub
	logger zerolog.Logger
	cfg    *config.Config

	searchService  *search.Service
	historyService *history.Service
	upstreamClient *upstream.Client
}

// NewServer creates a new API server instance.
func NewServer(cfg *config.Config, searchService *search.Service, historyService *history.Service, upstreamClient *upstream.Client, hub *websocket.Hub, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:           e,
		hub:            hub,
		logger:         logger.With().Str("component", "api").Logger(),
		cfg:            cfg,
		searchService:  searchService,
		historyService: historyService,
		upstreamClient: upstreamClient,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Skip compression for WebSocket
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")

	api.GET("/search", s.doSearch)

	api.GET("/history", s.getHistory)
	api.DELETE("/history", s.clearHistory)

	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]any{
		"status":   "ok",
		"upstream": "disconnected",
	}
	if s.upstreamClient != nil && s.upstreamClient.Connected() {
		status["upstream"] = "connected"
	}
	return c.JSON(http.StatusOK, status)
}
