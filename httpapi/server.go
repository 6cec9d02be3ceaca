// Package httpapi exposes a Connection over HTTP: one endpoint executing
// arbitrary statements, plus read-only catalog introspection, with
// graceful shutdown, structured request logging, and panic recovery.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golemdb/golemdb-sql-go/adapter"
	"github.com/golemdb/golemdb-sql-go/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server binds a Connection to an HTTP surface: POST /v1/execute runs one
// statement, GET /v1/tables and /v1/tables/:name answer catalog
// introspection without spending a round trip on SQL text.
type Server struct {
	conn    *adapter.Connection
	echo    *echo.Echo
	version string
}

func NewServer(conn *adapter.Connection, version string) *Server {
	s := &Server{conn: conn, echo: echo.New(), version: version}
	s.setupRoutes()
	return s
}

// Start blocks, serving addr until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start(addr string) error {
	go func() {
		logging.Info().Str("addr", addr).Str("version", s.version).Msg("starting golemdb-sql http server")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	logging.Info().Msg("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logging.Info().Msg("http server stopped")
	return nil
}

func (s *Server) setupRoutes() {
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	s.echo.Use(middleware.Recover())

	s.echo.GET("/healthz", s.healthz)
	s.echo.POST("/v1/execute", s.execute)
	s.echo.GET("/v1/tables", s.showTables)
	s.echo.GET("/v1/tables/:name", s.describeTable)
}
