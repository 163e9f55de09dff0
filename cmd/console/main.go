// Command console runs a query session in the terminal against the same
// reasoning service the HTTP server uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/activity"
	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/internal/config"
	"github.com/JaimeStill/vantage/internal/session"
)

func main() {
	var (
		logPath = flag.String("log", "", "Write logs to this file")
		sample  = flag.Bool("sample", false, "Start with the sample briefing loaded")
	)
	flag.Parse()

	if err := run(*logPath, *sample); err != nil {
		fmt.Fprintln(os.Stderr, "console:", err)
		os.Exit(1)
	}
}

func run(logPath string, sample bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	var out io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, nil)).With("module", "console")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	client := agent.New(&cfg.Agent, logger)
	stream := activity.New(&cfg.Activity, sessionID, logger)
	sess := session.New(client, stream, logger, session.Options{
		SessionID: sessionID,
		AgentID:   client.AgentID(),
	})
	go stream.Run(ctx)

	if sample {
		if err := sess.LoadSample(); err != nil {
			return err
		}
	}

	p := tea.NewProgram(newModel(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
