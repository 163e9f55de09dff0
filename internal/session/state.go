package session

import (
	"fmt"

	"github.com/JaimeStill/vantage/internal/alerts"
	"github.com/JaimeStill/vantage/internal/briefing"
)

// State is the position of the session in its request cycle.
type State int

const (
	StateIdle State = iota
	StateComposing
	StateDispatching
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateDispatching:
		return "dispatching"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for _, candidate := range []State{StateIdle, StateComposing, StateDispatching, StateAwaitingResponse} {
		if candidate.String() == string(b) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", b)
}

// Accepting reports whether a new message may be sent from s.
func (s State) Accepting() bool {
	return s == StateIdle || s == StateComposing
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. Assistant messages that carried a
// briefing have empty Content.
type Message struct {
	Role      Role               `json:"role"`
	Content   string             `json:"content"`
	Briefing  *briefing.Briefing `json:"briefing,omitempty"`
	Timestamp string             `json:"timestamp"`
}

// Snapshot is a copy of the session state. Mutating it does not affect
// the session.
type Snapshot struct {
	SessionID string             `json:"session_id"`
	State     State              `json:"state"`
	Input     string             `json:"input"`
	Messages  []Message          `json:"messages"`
	Alerts    []alerts.Alert     `json:"alerts"`
	Latest    *briefing.Briefing `json:"latest_briefing"`
	Stats     alerts.Stats       `json:"stats"`
	Error     string             `json:"error,omitempty"`
}

// Busy reports whether a request is outstanding.
func (s Snapshot) Busy() bool {
	return !s.State.Accepting()
}
