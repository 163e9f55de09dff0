// Package session holds the conversation with the reasoning service: the
// transcript, the alert set folded from recognized briefings, and the
// statistics recomputed over it. At most one request is in flight.
package session

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/activity"
	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/internal/alerts"
	"github.com/JaimeStill/vantage/internal/briefing"
)

const (
	// FailureBanner is shown when a failed reply explains nothing.
	FailureBanner = "Request failed. Please try again."
	// FailureMessage is the assistant entry recorded for a failed reply
	// without a message of its own.
	FailureMessage = "An error occurred while processing your request."
)

// Transport sends one message to the reasoning service.
type Transport interface {
	Call(ctx context.Context, req agent.Request) (agent.Reply, error)
}

// System is the query session.
type System interface {
	ID() string
	// Compose records draft input.
	Compose(text string) error
	// Send dispatches the composed input.
	Send(ctx context.Context) (Snapshot, error)
	// SendText dispatches text, ignoring any composed input.
	SendText(ctx context.Context, text string) (Snapshot, error)
	Snapshot() Snapshot
	Alerts() []alerts.Alert
	Stats() alerts.Stats
	Activity() activity.Snapshot
	DismissError()
	Reset() error
	LoadSample() error
}

// Options tune a session. Zero values select production behavior.
type Options struct {
	SessionID string
	AgentID   string
	Now       func() time.Time
	IDs       alerts.IDSource
}

type session struct {
	id        string
	agentID   string
	transport Transport
	signal    activity.Signal
	logger    *slog.Logger
	now       func() time.Time
	ids       alerts.IDSource

	mu       sync.Mutex
	state    State
	input    string
	messages []Message
	alerts   []alerts.Alert
	latest   *briefing.Briefing
	stats    alerts.Stats
	banner   string
}

func New(transport Transport, signal activity.Signal, logger *slog.Logger, opts Options) System {
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDs == nil {
		opts.IDs = alerts.NewID
	}

	return &session{
		id:        opts.SessionID,
		agentID:   opts.AgentID,
		transport: transport,
		signal:    signal,
		logger:    logger.With("system", "session", "session_id", opts.SessionID),
		now:       opts.Now,
		ids:       opts.IDs,
		stats:     alerts.ZeroStats(),
	}
}

func (s *session) ID() string {
	return s.id
}

func (s *session) Compose(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Accepting() {
		return ErrBusy
	}

	s.input = text
	if strings.TrimSpace(text) == "" {
		s.state = StateIdle
	} else {
		s.state = StateComposing
	}
	return nil
}

func (s *session) Send(ctx context.Context) (Snapshot, error) {
	return s.send(ctx, func() string { return s.input })
}

func (s *session) SendText(ctx context.Context, text string) (Snapshot, error) {
	return s.send(ctx, func() string { return text })
}

// send runs one request cycle. The lock is held for each transition but
// released while the transport call is outstanding; the Accepting check
// keeps a second cycle from starting in that window. The call is detached
// from ctx cancellation so an abandoned caller cannot leave the cycle
// half-finished.
func (s *session) send(ctx context.Context, input func() string) (Snapshot, error) {
	s.mu.Lock()
	if !s.state.Accepting() {
		s.mu.Unlock()
		return Snapshot{}, ErrBusy
	}

	text := strings.TrimSpace(input())
	if text == "" {
		s.mu.Unlock()
		return Snapshot{}, ErrEmptyMessage
	}

	s.state = StateDispatching
	s.messages = append(s.messages, Message{
		Role:      RoleUser,
		Content:   text,
		Timestamp: s.timestamp(),
	})
	s.input = ""
	s.banner = ""
	s.state = StateAwaitingResponse
	s.mu.Unlock()

	s.signal.SetProcessing(true)
	reply, err := s.transport.Call(context.WithoutCancel(ctx), agent.Request{
		Message:   text,
		AgentID:   s.agentID,
		SessionID: s.id,
	})
	s.signal.SetProcessing(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Error("agent call failed", "error", err)
		reply = agent.Reply{Error: err.Error()}
	}

	if reply.Failed() {
		s.fail(reply)
	} else {
		s.accept(briefing.Normalize(reply))
	}

	s.state = StateIdle
	return s.snapshot(), nil
}

func (s *session) fail(reply agent.Reply) {
	s.banner = reply.FailureText(FailureBanner)

	content := FailureMessage
	if reply.Response != nil && strings.TrimSpace(reply.Response.Message) != "" {
		content = reply.Response.Message
	}
	s.messages = append(s.messages, Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: s.timestamp(),
	})
}

func (s *session) accept(result briefing.Result) {
	if !result.Recognized() {
		s.messages = append(s.messages, Message{
			Role:      RoleAssistant,
			Content:   result.Text,
			Timestamp: s.timestamp(),
		})
		return
	}

	b := result.Briefing
	stamp := b.AnalysisTimestamp
	if stamp == "" {
		stamp = s.timestamp()
	}
	s.messages = append(s.messages, Message{
		Role:      RoleAssistant,
		Briefing:  b,
		Timestamp: stamp,
	})

	s.latest = b
	derived := alerts.Derive(*b, s.now(), s.ids)
	s.alerts = append(derived, s.alerts...)
	s.stats = alerts.Recompute(s.alerts, s.latest)

	s.logger.Info("briefing recognized",
		"source", result.Source,
		"geography", b.Geography,
		"severity", b.Tier(),
		"alerts", len(derived),
	)
}

func (s *session) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		SessionID: s.id,
		State:     s.state,
		Input:     s.input,
		Messages:  slices.Clone(s.messages),
		Alerts:    slices.Clone(s.alerts),
		Latest:    s.latest,
		Stats:     s.stats,
		Error:     s.banner,
	}
	if snap.Messages == nil {
		snap.Messages = []Message{}
	}
	if snap.Alerts == nil {
		snap.Alerts = []alerts.Alert{}
	}
	return snap
}

func (s *session) Alerts() []alerts.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.alerts)
}

func (s *session) Stats() alerts.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *session) Activity() activity.Snapshot {
	return s.signal.Snapshot()
}

func (s *session) DismissError() {
	s.mu.Lock()
	s.banner = ""
	s.mu.Unlock()
}

func (s *session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Accepting() {
		return ErrBusy
	}

	s.state = StateIdle
	s.input = ""
	s.messages = nil
	s.alerts = nil
	s.latest = nil
	s.stats = alerts.ZeroStats()
	s.banner = ""

	s.logger.Info("session reset")
	return nil
}

// LoadSample replaces the session contents with the demonstration
// briefing, its alerts, and a two-message transcript.
func (s *session) LoadSample() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Accepting() {
		return ErrBusy
	}

	sample := briefing.Sample()
	s.state = StateIdle
	s.input = ""
	s.banner = ""
	s.latest = &sample
	s.alerts = alerts.Sample()
	s.stats = alerts.Recompute(s.alerts, s.latest)
	s.messages = []Message{
		{
			Role:      RoleUser,
			Content:   "What is the property concentration risk in Southeast Florida?",
			Timestamp: "2025-06-15T14:29:00Z",
		},
		{
			Role:      RoleAssistant,
			Briefing:  &sample,
			Timestamp: sample.AnalysisTimestamp,
		},
	}

	s.logger.Info("sample data loaded")
	return nil
}
