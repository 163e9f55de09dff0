package alerts

import (
	"strings"
	"time"

	"github.com/JaimeStill/vantage/internal/briefing"
)

const unknown = "Unknown"

// Derive produces one alert per critical or warning breach in b, in breach
// order. Alerts carry b's geography, timestamp, and summary; a briefing
// without a timestamp is stamped with now. Every call mints new IDs, so
// deriving the same briefing twice yields distinct alerts.
func Derive(b briefing.Briefing, now time.Time, ids IDSource) []Alert {
	if ids == nil {
		ids = NewID
	}

	geography := fallback(b.Geography, unknown)
	timestamp := fallback(b.AnalysisTimestamp, now.UTC().Format(time.RFC3339))

	var out []Alert
	for _, breach := range b.Breaches {
		if !breach.Tier().Actionable() {
			continue
		}
		out = append(out, Alert{
			ID:              ids(),
			Severity:        strings.ToUpper(strings.TrimSpace(breach.Status)),
			Geography:       geography,
			Metric:          fallback(breach.Metric, unknown),
			Timestamp:       timestamp,
			CurrentValue:    breach.CurrentValue,
			Threshold:       breach.Threshold,
			BriefingSummary: b.Summary,
		})
	}
	return out
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
