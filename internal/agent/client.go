package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const chatPath = "/v3/inference/chat/"

// maxBody bounds how much of a response is read.
const maxBody = 8 << 20

// ErrTransport wraps failures to reach the service at all.
var ErrTransport = errors.New("agent transport failed")

// Client calls the chat endpoint of the reasoning service. Calls are paced
// by a token bucket and never retried.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	agentID  string
	userID   string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + chatPath,
		apiKey:   cfg.APIKey,
		agentID:  cfg.AgentID,
		userID:   cfg.UserID,
		limiter:  rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		logger:   logger.With("system", "agent"),
	}
}

// AgentID is the default agent addressed when a Request names none.
func (c *Client) AgentID() string {
	return c.agentID
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Response json.RawMessage `json:"response"`
	Message  string          `json:"message"`
	Detail   string          `json:"detail"`
}

// Call sends req and waits for the reply. A non-2xx status is reported in
// the Reply; only failures to complete the exchange return an error.
func (c *Client) Call(ctx context.Context, req Request) (Reply, error) {
	if req.AgentID == "" {
		req.AgentID = c.agentID
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	body, err := json.Marshal(chatRequest{
		UserID:    c.userID,
		AgentID:   req.AgentID,
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Reply{}, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	c.logger.Info("agent call completed",
		"agent_id", req.AgentID,
		"session_id", req.SessionID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(resp.StatusCode, data), nil
	}
	return success(data), nil
}

func success(data []byte) Reply {
	var payload chatResponse
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Response) == 0 {
		text := strings.TrimSpace(string(data))
		return Reply{
			Success:  true,
			Response: &Response{Status: StatusSuccess, Result: text, Message: text},
		}
	}

	var result any
	if err := json.Unmarshal(payload.Response, &result); err != nil {
		result = string(payload.Response)
	}

	r := &Response{Status: StatusSuccess, Result: result}
	if s, ok := result.(string); ok {
		r.Message = s
	}
	return Reply{Success: true, Response: r}
}

func failure(status int, data []byte) Reply {
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = http.StatusText(status)
	}

	r := &Response{Status: "error"}
	var payload chatResponse
	if err := json.Unmarshal(data, &payload); err == nil {
		r.Message = payload.Message
		if r.Message == "" {
			r.Message = payload.Detail
		}
	}

	return Reply{
		Success:  false,
		Error:    fmt.Sprintf("%d %s: %s", status, http.StatusText(status), text),
		Response: r,
	}
}
