package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server is the HTTP surface of the inbound pipeline: the provider webhook
// endpoint plus a health check.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
}

// NewServer creates the HTTP server and registers routes.
func NewServer(webhook *WebhookHandler, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	server := &Server{
		echo:   e,
		logger: logger,
	}

	e.GET("/health", server.healthCheck)
	e.POST("/webhooks/postmark/inbound", webhook.Handle())

	return server
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "inbound-pipeline",
	})
}

// Start begins serving on the given address, blocking until shutdown.
func (s *Server) Start(address string) error {
	s.logger.Info("starting HTTP server", zap.String("address", address))
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}
