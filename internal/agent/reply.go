// Package agent invokes the remote multi-agent reasoning service.
// It sends one user message per call, correlated by agent and session
// identifiers, and reports the outcome as a Reply.
package agent

import "strings"

// StatusSuccess is the Response.Status value the service uses for a
// completed inference.
const StatusSuccess = "success"

// Request is one user message addressed to an agent within a session.
type Request struct {
	Message   string `json:"message"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
}

// Response is the service payload. Result and Message are untrusted: Result
// may be a decoded JSON value of any shape or a string, Message free text.
type Response struct {
	Status  string `json:"status"`
	Result  any    `json:"result"`
	Message string `json:"message,omitempty"`
}

// Reply is the discriminated outcome of a call.
type Reply struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Response *Response `json:"response,omitempty"`
}

// Failed reports whether the call did not produce a successful response.
func (r Reply) Failed() bool {
	return !r.Success || r.Response == nil || !strings.EqualFold(r.Response.Status, StatusSuccess)
}

// FailureText returns the most specific description of a failed reply:
// the response message, then the error text, then fallback.
func (r Reply) FailureText(fallback string) string {
	if r.Response != nil && strings.TrimSpace(r.Response.Message) != "" {
		return r.Response.Message
	}
	if strings.TrimSpace(r.Error) != "" {
		return r.Error
	}
	return fallback
}
