// Package ops serves the operational HTTP endpoint: a health check and the
// Prometheus metrics. It runs beside the stdio transport so a supervisor
// can probe the process without touching the agent protocol.
package ops

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// PingFunc checks the upstream media server, typically by issuing an
// authenticated library fetch. A nil PingFunc makes /healthz a liveness
// probe only.
type PingFunc func(ctx context.Context) error

// Server is the operational HTTP server.
type Server struct {
	echo *echo.Echo
	log  *logrus.Logger
	ping PingFunc
}

// New builds the server with its routes registered.
func New(log *logrus.Logger, ping PingFunc) *Server {
	s := &Server{log: log, ping: ping}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", s.healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	return s
}

func (s *Server) healthz(c echo.Context) error {
	if s.ping != nil {
		if err := s.ping(c.Request().Context()); err != nil {
			s.log.WithField("error", err).Warn("health check failed")
			return c.JSON(http.StatusServiceUnavailable,
				map[string]string{"status": "degraded", "error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until the context is cancelled. It blocks, so run
// it in its own goroutine.
func (s *Server) Start(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		s.echo.Shutdown(context.Background())
	}()
	s.log.WithField("addr", addr).Info("ops endpoint listening")
	err := s.echo.Start(addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
