// Package briefing defines the canonical risk-concentration Briefing and
// turns heterogeneous agent replies into one.
package briefing

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// DefaultGeography is used when a briefing names no region.
const DefaultGeography = "Unknown Region"

// Briefing is a structured concentration assessment for one geography.
// Values are produced by FromMap and are not modified afterward.
type Briefing struct {
	SeverityLevel      string              `json:"severity_level"`
	Geography          string              `json:"geography"`
	Summary            string              `json:"briefing_summary"`
	Exposure           ExposureSummary     `json:"exposure_summary"`
	LOB                []LOBShare          `json:"lob_breakdown"`
	Intermediaries     []IntermediaryShare `json:"intermediary_concentration"`
	Breaches           []Breach            `json:"threshold_breaches"`
	Threats            []Threat            `json:"current_threats"`
	Actions            []Action            `json:"remedial_actions"`
	HistoricalContext  string              `json:"historical_context"`
	RiskAppetiteStatus string              `json:"risk_appetite_status"`
	AnalysisTimestamp  string              `json:"analysis_timestamp"`
}

type ExposureSummary struct {
	TotalPolicies      int    `json:"total_policies"`
	TotalInsuredValue  string `json:"total_insured_value"`
	ConcentrationScore int    `json:"concentration_score"`
	YoYGrowth          string `json:"yoy_growth"`
}

type LOBShare struct {
	LineOfBusiness string `json:"line_of_business"`
	Percentage     string `json:"percentage"`
	InsuredValue   string `json:"insured_value"`
}

type IntermediaryShare struct {
	Name       string `json:"name"`
	Percentage string `json:"percentage"`
}

// Breach is a metric observed against its threshold. Status is a raw
// severity token.
type Breach struct {
	Metric       string `json:"metric"`
	CurrentValue string `json:"current_value"`
	Threshold    string `json:"threshold"`
	Status       string `json:"status"`
}

func (b Breach) Tier() Tier { return Classify(b.Status) }

type Threat struct {
	Name        string `json:"threat_name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func (t Threat) Tier() Tier { return Classify(t.Severity) }

// Action is a recommended remediation. Priority 0 means the agent gave none.
type Action struct {
	Priority  int    `json:"priority"`
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
	Urgency   string `json:"urgency"`
}

// Tier classifies the briefing's overall severity.
func (b Briefing) Tier() Tier { return Classify(b.SeverityLevel) }

// ActionsByPriority returns the remedial actions in ascending priority.
// Actions without a priority sort as 99. The sort is stable.
func (b Briefing) ActionsByPriority() []Action {
	actions := slices.Clone(b.Actions)
	slices.SortStableFunc(actions, func(x, y Action) int {
		return effectivePriority(x) - effectivePriority(y)
	})
	return actions
}

func effectivePriority(a Action) int {
	if a.Priority <= 0 {
		return 99
	}
	return a.Priority
}

// Urgency buckets an action's free-text urgency.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyShortTerm Urgency = "short-term"
	UrgencyOther     Urgency = "other"
)

// UrgencyOf classifies an urgency label, ignoring case.
func UrgencyOf(label string) Urgency {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "immediate":
		return UrgencyImmediate
	case "short-term":
		return UrgencyShortTerm
	default:
		return UrgencyOther
	}
}

// Recognizable reports whether m carries a severity and so can be read as
// a briefing.
func Recognizable(m map[string]any) bool {
	return m != nil && strings.TrimSpace(text(m["severity_level"])) != ""
}

// FromMap builds a Briefing from a decoded JSON object. Missing objects and
// sequences become empty, missing strings become "", and numbers may arrive
// as JSON numbers or numeric strings. Entries of the wrong shape are
// skipped.
func FromMap(m map[string]any) Briefing {
	exposure := object(m["exposure_summary"])

	b := Briefing{
		SeverityLevel: text(m["severity_level"]),
		Geography:     text(m["geography"]),
		Summary:       text(m["briefing_summary"]),
		Exposure: ExposureSummary{
			TotalPolicies:      integer(exposure["total_policies"]),
			TotalInsuredValue:  text(exposure["total_insured_value"]),
			ConcentrationScore: min(max(integer(exposure["concentration_score"]), 0), 100),
			YoYGrowth:          text(exposure["yoy_growth"]),
		},
		HistoricalContext:  text(m["historical_context"]),
		RiskAppetiteStatus: text(m["risk_appetite_status"]),
		AnalysisTimestamp:  text(m["analysis_timestamp"]),
	}

	if strings.TrimSpace(b.Geography) == "" {
		b.Geography = DefaultGeography
	}

	b.LOB = collect(m["lob_breakdown"], func(e map[string]any) LOBShare {
		return LOBShare{
			LineOfBusiness: text(e["line_of_business"]),
			Percentage:     text(e["percentage"]),
			InsuredValue:   text(e["insured_value"]),
		}
	})
	b.Intermediaries = collect(m["intermediary_concentration"], func(e map[string]any) IntermediaryShare {
		return IntermediaryShare{
			Name:       text(e["name"]),
			Percentage: text(e["percentage"]),
		}
	})
	b.Breaches = collect(m["threshold_breaches"], func(e map[string]any) Breach {
		return Breach{
			Metric:       text(e["metric"]),
			CurrentValue: text(e["current_value"]),
			Threshold:    text(e["threshold"]),
			Status:       text(e["status"]),
		}
	})
	b.Threats = collect(m["current_threats"], func(e map[string]any) Threat {
		name := text(e["threat_name"])
		if name == "" {
			name = text(e["name"])
		}
		return Threat{
			Name:        name,
			Severity:    text(e["severity"]),
			Description: text(e["description"]),
		}
	})
	b.Actions = collect(m["remedial_actions"], func(e map[string]any) Action {
		return Action{
			Priority:  integer(e["priority"]),
			Action:    text(e["action"]),
			Rationale: text(e["rationale"]),
			Urgency:   text(e["urgency"]),
		}
	})

	return b
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func collect[T any](v any, build func(map[string]any) T) []T {
	items, _ := v.([]any)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if e, ok := item.(map[string]any); ok {
			out = append(out, build(e))
		}
	}
	return out
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func integer(v any) int {
	switch t := v.(type) {
	case float64:
		return int(math.Round(t))
	case int:
		return t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return int(math.Round(f))
	default:
		return 0
	}
}
