// Package alerts derives threshold-breach alerts from briefings and keeps
// the portfolio statistics computed over them.
package alerts

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/vantage/internal/briefing"
)

// Alert records one actionable threshold breach. Severity keeps the
// agent's token; Tier classifies it on read.
type Alert struct {
	ID              string `json:"id"`
	Severity        string `json:"severity"`
	Geography       string `json:"geography"`
	Metric          string `json:"metric"`
	Timestamp       string `json:"timestamp"`
	CurrentValue    string `json:"current_value"`
	Threshold       string `json:"threshold"`
	BriefingSummary string `json:"briefing_summary"`
}

func (a Alert) Tier() briefing.Tier {
	return briefing.Classify(a.Severity)
}

// IDSource yields alert identifiers.
type IDSource func() string

// NewID returns random UUIDs.
var NewID IDSource = uuid.NewString

// Sample returns the demonstration alerts shown in sample mode, newest
// first.
func Sample() []Alert {
	return []Alert{
		{ID: "a1", Severity: "RED", Geography: "Southeast Florida", Metric: "YoY Growth Rate", Timestamp: "2025-06-15T14:30:00Z", CurrentValue: "14.2%", Threshold: "10%", BriefingSummary: "Year-over-year growth significantly exceeds threshold"},
		{ID: "a2", Severity: "RED", Geography: "Southeast Florida", Metric: "Coastal Exposure Ratio", Timestamp: "2025-06-15T14:30:00Z", CurrentValue: "58%", Threshold: "50%", BriefingSummary: "Coastal exposure ratio has exceeded the red threshold"},
		{ID: "a3", Severity: "AMBER", Geography: "Southeast Florida", Metric: "Concentration Score", Timestamp: "2025-06-15T14:30:00Z", CurrentValue: "72", Threshold: "65", BriefingSummary: "Overall concentration score breaching amber threshold"},
		{ID: "a4", Severity: "AMBER", Geography: "Gulf Coast Texas", Metric: "Wind Exposure TIV", Timestamp: "2025-06-14T09:15:00Z", CurrentValue: "$8.2B", Threshold: "$7.5B", BriefingSummary: "Wind exposure total insured value approaching limits"},
		{ID: "a5", Severity: "GREEN", Geography: "Pacific Northwest", Metric: "Earthquake PML", Timestamp: "2025-06-13T16:45:00Z", CurrentValue: "$2.1B", Threshold: "$4.0B", BriefingSummary: "Earthquake probable maximum loss within acceptable limits"},
	}
}
