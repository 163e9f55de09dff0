package briefing

import (
	"encoding/json"
	"strings"

	"github.com/JaimeStill/vantage/internal/agent"
	"github.com/JaimeStill/vantage/pkg/formatting"
)

// EmptyReplyText stands in for a reply that carried neither a message nor
// a result.
const EmptyReplyText = "The agent returned an empty response."

// Result is the outcome of normalizing a successful reply. Exactly one of
// Briefing or Text is meaningful: Briefing is nil when the reply was not
// recognized, and Text then holds the free-text answer.
type Result struct {
	Briefing *Briefing
	Source   string
	Text     string
}

// Recognized reports whether the reply produced a Briefing.
func (r Result) Recognized() bool { return r.Briefing != nil }

type attempt struct {
	name string
	run  func(*agent.Response) (map[string]any, bool)
}

// chain is tried in order; the first attempt yielding a recognizable
// object wins.
var chain = []attempt{
	{name: "structured", run: structured},
	{name: "result", run: extractedResult},
	{name: "message", run: extractedMessage},
}

// Normalize reads a reply that completed successfully. It never fails: a
// reply whose payload holds no recognizable briefing becomes free text.
func Normalize(reply agent.Reply) Result {
	resp := reply.Response
	if resp == nil {
		return Result{Source: "fallback", Text: EmptyReplyText}
	}

	for _, a := range chain {
		if m, ok := a.run(resp); ok {
			b := FromMap(m)
			return Result{Briefing: &b, Source: a.name}
		}
	}

	return Result{Source: "fallback", Text: fallbackText(resp)}
}

func structured(resp *agent.Response) (map[string]any, bool) {
	if !strings.EqualFold(resp.Status, agent.StatusSuccess) {
		return nil, false
	}
	m, ok := resp.Result.(map[string]any)
	return m, ok && Recognizable(m)
}

func extractedResult(resp *agent.Response) (map[string]any, bool) {
	m := formatting.Extract(resp.Result)
	return m, Recognizable(m)
}

func extractedMessage(resp *agent.Response) (map[string]any, bool) {
	if strings.TrimSpace(resp.Message) == "" {
		return nil, false
	}
	m := formatting.Extract(resp.Message)
	return m, Recognizable(m)
}

func fallbackText(resp *agent.Response) string {
	if strings.TrimSpace(resp.Message) != "" {
		return resp.Message
	}

	switch v := resp.Result.(type) {
	case nil:
		return EmptyReplyText
	case string:
		if strings.TrimSpace(v) == "" {
			return EmptyReplyText
		}
		return v
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		return EmptyReplyText
	}
	return string(data)
}
