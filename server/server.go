package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/BrewMyTech/grok-mcp/logger"

	"github.com/google/uuid"
)

type Server struct {
	StartTime time.Time
	Svr       *http.Server
	grace     time.Duration
	log       *logger.Logger
}

func NewServer(cfg *Conf, handler http.Handler) *Server {
	return &Server{
		StartTime: time.Now().UTC(),
		grace:     cfg.Grace,
		log:       logger.NewLogger("Server", uuid.NewString()),
		Svr: &http.Server{
			Handler:      handler,
			Addr:         cfg.Addr,
			ReadTimeout:  cfg.TimeoutRead,
			WriteTimeout: cfg.TimeoutWrite,
			IdleTimeout:  cfg.TimeoutIdle,
		},
	}
}

func secondsToTimeStr(seconds float64) string {
	duration := time.Duration(int64(seconds)) * time.Second
	timeValue := time.Time{}.Add(duration)
	return timeValue.Format("15:04:05")
}

// returns the current run time of the server
// as a HH:MM:SS formatted string.
func (s *Server) RunTime() string {
	return secondsToTimeStr(time.Since(s.StartTime).Seconds())
}

// forcibly shuts down server and returns total run time.
func (s *Server) Shutdown() (string, error) {
	if err := s.Svr.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return "0", fmt.Errorf("server shutdown failed: %w", err)
	}
	return s.RunTime(), nil
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Svr.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.Svr.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled, then drains in-flight
// requests for up to the grace period before forcing the listener closed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server...", "addr", ln.Addr().String())
		if err := s.Svr.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	if err := s.Svr.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown timed out. forcing exit.")
		if _, err := s.Shutdown(); err != nil {
			return err
		}
	}
	s.log.Info("server stopped", "run_time", s.RunTime())
	return <-errCh
}
