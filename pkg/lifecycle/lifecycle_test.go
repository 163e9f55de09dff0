package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/vantage/pkg/lifecycle"
)

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
}

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
	if err := lc.StartupErr(); err != nil {
		t.Errorf("StartupErr() = %v, want nil", err)
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup("counter", func(context.Context) error {
			count.Add(1)
			return nil
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestStartupFailuresAreNamed(t *testing.T) {
	lc := lifecycle.New()
	pingErr := errors.New("connection refused")

	lc.OnStartup("knowledge", func(context.Context) error { return errors.New("502") })
	lc.OnStartup("database", func(context.Context) error { return pingErr })
	lc.OnStartup("activity", func(context.Context) error { return nil })

	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("failed hooks should not block readiness")
	}
	err := lc.StartupErr()
	if !errors.Is(err, pingErr) {
		t.Fatalf("StartupErr() = %v, want wrapped ping error", err)
	}
	msg := err.Error()
	if strings.Index(msg, "database:") > strings.Index(msg, "knowledge:") {
		t.Errorf("failures not ordered by name: %q", msg)
	}
	if strings.Contains(msg, "activity") {
		t.Errorf("successful hook reported: %q", msg)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown("pool", func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeoutNamesPendingHooks(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown("fast", func() {
		<-lc.Context().Done()
	})
	lc.OnShutdown("http", func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "waiting on http") {
		t.Errorf("error = %q, want pending hook named", err)
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestNotReadyAfterShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if lc.Ready() {
		t.Error("should not report ready after shutdown")
	}
}
