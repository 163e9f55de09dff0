// Package activity follows the reasoning service's per-session event
// stream so callers can show which agent is working and what it is
// thinking while a request is outstanding.
package activity

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/JaimeStill/vantage/pkg/formatting"
	"github.com/JaimeStill/vantage/pkg/lifecycle"
)

const (
	maxEvents   = 200
	maxThinking = 50
)

// Event types with special handling.
const (
	EventThinking   = "thinking"
	EventAgentStart = "agent_start"
	EventAgentEnd   = "agent_end"
	EventCompleted  = "completed"
)

type Event struct {
	Type      string `json:"event_type"`
	AgentID   string `json:"agent_id"`
	AgentName string `json:"agent_name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Snapshot is a point-in-time copy of the subscription state.
type Snapshot struct {
	Connected      bool     `json:"connected"`
	Processing     bool     `json:"processing"`
	ActiveAgent    string   `json:"active_agent"`
	LatestThinking string   `json:"latest_thinking"`
	Thinking       []string `json:"thinking"`
	Events         []Event  `json:"events"`
}

// Signal is the view of the subscription the session depends on.
type Signal interface {
	SetProcessing(bool)
	Snapshot() Snapshot
}

// Subscription reads the event stream for one session.
type Subscription struct {
	endpoint string
	delay    time.Duration
	dialer   *websocket.Dialer
	logger   *slog.Logger

	mu         sync.Mutex
	connected  bool
	processing bool
	active     string
	thinking   []string
	events     []Event
}

// New prepares a subscription for sessionID. Nothing is dialed until Run.
func New(cfg *Config, sessionID string, logger *slog.Logger) *Subscription {
	return &Subscription{
		endpoint: endpoint(cfg, sessionID),
		delay:    cfg.ReconnectDelayDuration(),
		dialer:   websocket.DefaultDialer,
		logger:   logger.With("system", "activity"),
	}
}

func endpoint(cfg *Config, sessionID string) string {
	if cfg.URL == "" {
		return ""
	}
	u := strings.TrimRight(cfg.URL, "/") + "/ws/" + url.PathEscape(sessionID)
	if cfg.APIKey != "" {
		u += "?" + url.Values{"x-api-key": {cfg.APIKey}}.Encode()
	}
	return u
}

// Enabled reports whether a stream URL was configured.
func (s *Subscription) Enabled() bool {
	return s.endpoint != ""
}

// Start runs the reader for the lifetime of the coordinator's context.
func (s *Subscription) Start(lc *lifecycle.Coordinator) error {
	if !s.Enabled() {
		s.logger.Info("activity stream disabled")
		return nil
	}
	lc.OnStartup("activity", func(ctx context.Context) error {
		go s.Run(ctx)
		return nil
	})
	return nil
}

// Run dials the stream and records events until ctx ends, redialing after
// each disconnect.
func (s *Subscription) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}

	for {
		if err := s.read(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("activity stream disconnected", "error", err)
		}
		s.setConnected(false)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.delay):
		}
	}
}

func (s *Subscription) read(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	s.setConnected(true)
	s.logger.Info("activity stream connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		event, err := formatting.Parse[Event](string(data))
		if err != nil || event.Type == "" {
			s.logger.Debug("activity frame skipped", "error", err)
			continue
		}
		s.record(event)
	}
}

func (s *Subscription) record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = appendCapped(s.events, e, maxEvents)

	switch e.Type {
	case EventThinking:
		if e.Message != "" {
			s.thinking = appendCapped(s.thinking, e.Message, maxThinking)
		}
	case EventAgentStart:
		s.active = e.AgentName
		if s.active == "" {
			s.active = e.AgentID
		}
	case EventAgentEnd, EventCompleted:
		s.active = ""
	}
}

func appendCapped[T any](items []T, item T, limit int) []T {
	items = append(items, item)
	if over := len(items) - limit; over > 0 {
		items = slices.Delete(items, 0, over)
	}
	return items
}

func (s *Subscription) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

// SetProcessing marks whether a request is outstanding. Starting a new
// request clears the thinking log of the previous one.
func (s *Subscription) SetProcessing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v && !s.processing {
		s.thinking = nil
		s.active = ""
	}
	s.processing = v
}

func (s *Subscription) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Connected:   s.connected,
		Processing:  s.processing,
		ActiveAgent: s.active,
		Thinking:    slices.Clone(s.thinking),
		Events:      slices.Clone(s.events),
	}
	if snap.Thinking == nil {
		snap.Thinking = []string{}
	}
	if snap.Events == nil {
		snap.Events = []Event{}
	}
	if n := len(s.thinking); n > 0 {
		snap.LatestThinking = s.thinking[n-1]
	}
	return snap
}
