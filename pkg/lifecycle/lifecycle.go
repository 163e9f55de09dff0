// Package lifecycle coordinates startup and shutdown of long-lived subsystems
// such as the database pool and the agent activity subscription.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator runs named startup hooks concurrently, records which of them
// failed, and cancels its context to release shutdown hooks.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	ready      atomic.Bool

	mu       sync.Mutex
	failures map[string]error
	pending  map[string]int
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:      ctx,
		cancel:   cancel,
		failures: make(map[string]error),
		pending:  make(map[string]int),
	}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently with the other startup hooks. A returned
// error is kept under name and reported by StartupErr; it does not stop the
// remaining hooks.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	c.startupWg.Go(func() {
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failures[name] = err
			c.mu.Unlock()
		}
	})
}

// OnShutdown runs fn concurrently; fn should block on <-c.Context().Done()
// before releasing resources. Hooks still running when Shutdown times out
// are named in its error.
func (c *Coordinator) OnShutdown(name string, fn func()) {
	c.mu.Lock()
	c.pending[name]++
	c.mu.Unlock()

	c.shutdownWg.Go(func() {
		defer func() {
			c.mu.Lock()
			if c.pending[name]--; c.pending[name] <= 0 {
				delete(c.pending, name)
			}
			c.mu.Unlock()
		}()
		fn()
	})
}

// Ready reports whether all startup hooks have completed, failed or not.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until startup hooks finish, then marks the
// coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.ready.Store(true)
}

// StartupErr joins the failures of every startup hook, ordered by name.
func (c *Coordinator) StartupErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, name := range slices.Sorted(maps.Keys(c.failures)) {
		errs = append(errs, fmt.Errorf("%s: %w", name, c.failures[name]))
	}
	return errors.Join(errs...)
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		c.mu.Lock()
		waiting := slices.Sorted(maps.Keys(c.pending))
		c.mu.Unlock()
		return fmt.Errorf("shutdown timeout after %v: waiting on %s", timeout, strings.Join(waiting, ", "))
	}
}
