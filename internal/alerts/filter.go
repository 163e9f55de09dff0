package alerts

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/vantage/internal/briefing"
)

// Query selects alerts. A nil Severity and empty Text match everything.
type Query struct {
	Severity *briefing.Tier
	Text     string
}

// QueryFromValues reads the severity and search parameters.
func QueryFromValues(values url.Values) Query {
	var q Query
	if tier, ok := briefing.ParseTier(values.Get("severity")); ok {
		q.Severity = &tier
	}
	q.Text = strings.TrimSpace(values.Get("search"))
	return q
}

// Matches reports whether a satisfies both predicates. Text matches a
// case-insensitive substring of the geography or metric.
func (q Query) Matches(a Alert) bool {
	if q.Severity != nil && a.Tier() != *q.Severity {
		return false
	}
	if q.Text == "" {
		return true
	}
	needle := strings.ToLower(q.Text)
	return strings.Contains(strings.ToLower(a.Geography), needle) ||
		strings.Contains(strings.ToLower(a.Metric), needle)
}

// Filter returns the alerts matching q in their original order.
func Filter(items []Alert, q Query) []Alert {
	out := make([]Alert, 0, len(items))
	for _, a := range items {
		if q.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// SortByTimestampDesc returns a copy of items ordered newest first. Ties
// keep their relative order and unparseable timestamps sort last.
func SortByTimestampDesc(items []Alert) []Alert {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(x, y Alert) int {
		tx, okx := parseTimestamp(x.Timestamp)
		ty, oky := parseTimestamp(y.Timestamp)
		switch {
		case !okx && !oky:
			return 0
		case !okx:
			return 1
		case !oky:
			return -1
		}
		return ty.Compare(tx)
	})
	return sorted
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
