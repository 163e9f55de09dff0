package briefing_test

import (
	"testing"

	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/internal/briefing"
)

func reply(result any, message string) agent.Reply {
	return agent.Reply{
		Success:  true,
		Response: &agent.Response{Status: agent.StatusSuccess, Result: result, Message: message},
	}
}

func TestNormalizeChain(t *testing.T) {
	tests := []struct {
		name       string
		reply      agent.Reply
		wantSource string
		wantGeo    string
	}{
		{
			name:       "structured result",
			reply:      reply(map[string]any{"severity_level": "RED", "geography": "Southeast Florida"}, ""),
			wantSource: "structured",
			wantGeo:    "Southeast Florida",
		},
		{
			name:       "result holds JSON text",
			reply:      reply(`Here is the briefing: {"severity_level":"AMBER","geography":"Gulf Coast Texas"}`, ""),
			wantSource: "result",
			wantGeo:    "Gulf Coast Texas",
		},
		{
			name:       "fenced JSON in message",
			reply:      reply(map[string]any{}, "```json\n{\"severity_level\":\"RED\",\"geography\":\"California Coast\"}\n```"),
			wantSource: "message",
			wantGeo:    "California Coast",
		},
		{
			name:       "structured result needs success status",
			reply:      agent.Reply{Success: true, Response: &agent.Response{Status: "partial", Result: map[string]any{"severity_level": "LOW"}}},
			wantSource: "result",
			wantGeo:    briefing.DefaultGeography,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := briefing.Normalize(tt.reply)
			if !got.Recognized() {
				t.Fatalf("expected briefing, got text %q", got.Text)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", got.Source, tt.wantSource)
			}
			if got.Briefing.Geography != tt.wantGeo {
				t.Errorf("Geography = %q, want %q", got.Briefing.Geography, tt.wantGeo)
			}
		})
	}
}

func TestNormalizeFencedMessageWithEmptyResult(t *testing.T) {
	r := agent.Reply{
		Success: true,
		Response: &agent.Response{
			Status:  "success",
			Result:  map[string]any{},
			Message: "```json\n{\"severity_level\":\"RED\",\"geography\":\"Southeast Florida\",\"threshold_breaches\":[{\"metric\":\"YoY Growth Rate\",\"status\":\"RED\"}]}\n```",
		},
	}

	got := briefing.Normalize(r)
	if !got.Recognized() {
		t.Fatalf("expected recognized briefing, got text %q", got.Text)
	}
	if got.Source != "message" {
		t.Errorf("Source = %q, want message", got.Source)
	}
	if got.Briefing.Tier() != briefing.TierCritical {
		t.Errorf("Tier = %s, want CRITICAL", got.Briefing.Tier())
	}
	if len(got.Briefing.Breaches) != 1 {
		t.Errorf("Breaches = %d, want 1", len(got.Briefing.Breaches))
	}
}

func TestNormalizeFallbackText(t *testing.T) {
	tests := []struct {
		name  string
		reply agent.Reply
		want  string
	}{
		{"message preferred", reply(map[string]any{"answer": 1}, "Exposure is stable."), "Exposure is stable."},
		{"string result", reply("No concentration issues found.", ""), "No concentration issues found."},
		{"object result stringified", reply(map[string]any{"answer": "none"}, ""), `{"answer":"none"}`},
		{"nothing", reply(nil, ""), briefing.EmptyReplyText},
		{"nil response", agent.Reply{Success: true}, briefing.EmptyReplyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := briefing.Normalize(tt.reply)
			if got.Recognized() {
				t.Fatalf("unexpected briefing from %s", got.Source)
			}
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}
