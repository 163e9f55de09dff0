package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/pkg/lifecycle"
)

type httpServer struct {
	http     *http.Server
	logger   *slog.Logger
	timeouts config.Timeouts
	listener net.Listener
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	timeouts := cfg.Timeouts()
	return &httpServer{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ReadTimeout:       timeouts.Read,
			WriteTimeout:      timeouts.Write,
			IdleTimeout:       timeouts.Idle,
			ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
		},
		logger:   logger.With("system", "http"),
		timeouts: timeouts,
	}
}

// Start binds the listener before returning so an occupied port fails
// startup instead of surfacing later from the serve goroutine.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	s.listener = ln

	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	lc.OnShutdown("http", func() {
		<-lc.Context().Done()
		s.logger.Info("draining connections", "timeout", s.timeouts.Shutdown)

		ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error("server shutdown error", "error", err)
			return
		}
		s.logger.Info("server shutdown complete")
	})

	return nil
}

// Addr reports the bound address, which differs from the configured one
// when port 0 is used.
func (s *httpServer) Addr() string {
	if s.listener == nil {
		return s.http.Addr
	}
	return s.listener.Addr().String()
}
