package main

import (
	"fmt"
	"time"

	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/internal/infrastructure"
)

// Server owns the process-wide infrastructure, the mounted modules and the
// HTTP listener for one briefing session.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("infrastructure: %w", err)
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, fmt.Errorf("modules: %w", err)
	}

	router := buildRouter(infra)
	modules.Mount(router)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start runs the startup hooks and binds the listener. Readiness flips once
// every hook has finished; /readyz reports 503 until then.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		s.infra.Lifecycle.Shutdown(time.Second)
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		if err := s.infra.Lifecycle.StartupErr(); err != nil {
			s.infra.Logger.Warn("started degraded", "addr", s.http.Addr(), "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready", "addr", s.http.Addr())
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "session_id", s.infra.SessionID)
	return s.infra.Lifecycle.Shutdown(timeout)
}
