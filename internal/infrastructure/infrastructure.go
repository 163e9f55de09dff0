// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies domain systems share: logging, the database,
// the knowledge base, and the connections to the reasoning service.
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/vantage/internal/activity"
	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/internal/knowledge"
	"github.com/JaimeStill/vantage/pkg/database"
	"github.com/JaimeStill/vantage/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// One process serves one query session, so the session identifier is fixed
// here and shared by the agent transport and the activity stream.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	SessionID string
	Agent     *agent.Client
	Activity  *activity.Subscription
	Knowledge knowledge.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	sessionID := uuid.NewString()

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		SessionID: sessionID,
		Agent:     agent.New(&cfg.Agent, logger),
		Activity:  activity.New(&cfg.Activity, sessionID, logger),
		Knowledge: knowledge.New(
			&cfg.Knowledge,
			knowledge.NewClient(&cfg.Knowledge, logger),
			logger,
		),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Activity.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("activity start failed: %w", err)
	}
	if err := i.Knowledge.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("knowledge start failed: %w", err)
	}
	return nil
}

// Check probes the database and the knowledge base concurrently and joins
// every failure. A disabled knowledge base counts as healthy.
func (i *Infrastructure) Check(ctx context.Context) error {
	probes := []func(context.Context) error{
		i.Database.Ping,
		i.pingKnowledge,
	}
	errs := make([]error, len(probes))

	var g errgroup.Group
	for n, probe := range probes {
		g.Go(func() error {
			errs[n] = probe(ctx)
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

func (i *Infrastructure) pingKnowledge(ctx context.Context) error {
	_, err := i.Knowledge.Documents(ctx)
	if errors.Is(err, knowledge.ErrDisabled) {
		return nil
	}
	return err
}
