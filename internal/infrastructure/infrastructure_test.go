package infrastructure_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/activity"
	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/internal/infrastructure"
	"github.com/JaimeStill/vantage/internal/knowledge"
	"github.com/JaimeStill/vantage/pkg/database"
)

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "127.0.0.1",
			Port:            1,
			Name:            "vantage",
			User:            "vantage",
			Password:        "vantage",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "500ms",
		},
		Agent: agent.Config{
			BaseURL:           "http://127.0.0.1:1",
			AgentID:           "manager",
			UserID:            "vantage",
			Timeout:           "0s",
			RequestsPerMinute: 30,
		},
		Activity: activity.Config{ReconnectDelay: "5s"},
		Knowledge: knowledge.Config{
			CacheTTL:      "5m",
			Timeout:       "60s",
			MaxUploadSize: "25MB",
			MaxPages:      500,
		},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Agent == nil {
		t.Error("Agent is nil")
	}
	if infra.Activity == nil {
		t.Error("Activity is nil")
	}
	if infra.Knowledge == nil {
		t.Error("Knowledge is nil")
	}
	if _, err := uuid.Parse(infra.SessionID); err != nil {
		t.Errorf("SessionID %q is not a uuid: %v", infra.SessionID, err)
	}
	if infra.Agent.AgentID() != "manager" {
		t.Errorf("agent id = %s, want manager", infra.Agent.AgentID())
	}
}

func TestNewDistinctSessions(t *testing.T) {
	a, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	if a.SessionID == b.SessionID {
		t.Error("two infrastructures share a session id")
	}
}

func TestStartActivityDisabled(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatal(err)
	}
	if infra.Activity.Enabled() {
		t.Fatal("activity should be disabled without a url")
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
}

func TestCheck(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatal(err)
	}

	err = infra.Check(context.Background())
	if !errors.Is(err, database.ErrNotReady) {
		t.Errorf("err = %v, want database.ErrNotReady", err)
	}
	if errors.Is(err, knowledge.ErrDisabled) {
		t.Errorf("disabled knowledge base should not fail the check: %v", err)
	}
}

func TestCheckKnowledgeUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := validConfig()
	cfg.Knowledge = knowledge.Config{
		BaseURL:       srv.URL,
		RagID:         "rag",
		CacheTTL:      "5m",
		Timeout:       "5s",
		MaxUploadSize: "25MB",
		MaxPages:      500,
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	err = infra.Check(context.Background())
	if !errors.Is(err, knowledge.ErrUnavailable) {
		t.Errorf("err = %v, want knowledge.ErrUnavailable", err)
	}
	if infra.Knowledge.LastError() == "" {
		t.Error("knowledge failure not recorded")
	}
}
