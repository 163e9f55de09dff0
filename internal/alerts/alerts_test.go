package alerts_test

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/vantage/internal/alerts"
	"github.com/JaimeStill/vantage/internal/briefing"
)

func sequentialIDs() alerts.IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("alert-%d", n)
	}
}

func TestDeriveFourBreaches(t *testing.T) {
	b := briefing.Briefing{
		Geography:         "Southeast Florida",
		Summary:           "Coastal concentration rising.",
		AnalysisTimestamp: "2025-06-15T14:30:00Z",
		Breaches: []briefing.Breach{
			{Metric: "Concentration Score", Status: "AMBER"},
			{Metric: "YoY Growth Rate", Status: "RED"},
			{Metric: "Single Intermediary Share", Status: "AMBER"},
			{Metric: "Coastal Exposure Ratio", Status: "RED"},
		},
	}

	got := alerts.Derive(b, time.Now(), sequentialIDs())
	if len(got) != 4 {
		t.Fatalf("Derive() = %d alerts, want 4", len(got))
	}

	for i, a := range got {
		if a.Metric != b.Breaches[i].Metric {
			t.Errorf("alert %d metric = %q, want %q", i, a.Metric, b.Breaches[i].Metric)
		}
		if a.Geography != "Southeast Florida" || a.Timestamp != "2025-06-15T14:30:00Z" {
			t.Errorf("alert %d not stamped from briefing: %+v", i, a)
		}
		if a.BriefingSummary != b.Summary {
			t.Errorf("alert %d summary = %q", i, a.BriefingSummary)
		}
	}
}

func TestDeriveOnlyActionableTiers(t *testing.T) {
	statuses := []string{"RED", "high", "AMBER", "medium", "GREEN", "low", "OK", "", "unexpected"}
	b := briefing.Briefing{Geography: "Gulf Coast Texas"}
	for _, s := range statuses {
		b.Breaches = append(b.Breaches, briefing.Breach{Metric: "m-" + s, Status: s})
	}

	got := alerts.Derive(b, time.Now(), sequentialIDs())

	var metrics []string
	for _, a := range got {
		metrics = append(metrics, a.Metric)
		if !a.Tier().Actionable() {
			t.Errorf("non-actionable alert derived: %+v", a)
		}
	}

	want := []string{"m-RED", "m-high", "m-AMBER", "m-medium"}
	if diff := cmp.Diff(want, metrics); diff != "" {
		t.Errorf("derived metrics (-want +got):\n%s", diff)
	}
	if got[1].Severity != "HIGH" {
		t.Errorf("severity token = %q, want HIGH", got[1].Severity)
	}
}

func TestDeriveDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.FixedZone("EST", -5*3600))
	b := briefing.Briefing{Breaches: []briefing.Breach{{Status: "RED"}}}

	got := alerts.Derive(b, now, sequentialIDs())
	if len(got) != 1 {
		t.Fatalf("Derive() = %d alerts, want 1", len(got))
	}

	a := got[0]
	if a.Geography != "Unknown" || a.Metric != "Unknown" {
		t.Errorf("defaults not applied: %+v", a)
	}
	if a.Timestamp != "2026-03-01T13:00:00Z" {
		t.Errorf("Timestamp = %q, want UTC derivation instant", a.Timestamp)
	}
}

func TestDeriveDoesNotDeduplicate(t *testing.T) {
	b := briefing.Briefing{
		Geography: "California Coast",
		Breaches:  []briefing.Breach{{Metric: "Wildfire PML", Status: "RED"}},
	}

	first := alerts.Derive(b, time.Now(), nil)
	second := alerts.Derive(b, time.Now(), nil)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one alert per derivation, got %d and %d", len(first), len(second))
	}
	if first[0].ID == second[0].ID {
		t.Error("repeated derivation reused an alert ID")
	}
}

func TestRecomputeZero(t *testing.T) {
	got := alerts.Recompute(nil, nil)
	want := alerts.Stats{TopRegion: "--"}
	if got != want {
		t.Errorf("Recompute(nil, nil) = %+v, want %+v", got, want)
	}
}

func TestRecompute(t *testing.T) {
	latest := briefing.Sample()
	items := alerts.Sample()

	got := alerts.Recompute(items, &latest)
	want := alerts.Stats{
		GeographyCount:     3,
		CriticalCount:      2,
		ConcentrationScore: 72,
		TopRegion:          "Southeast Florida",
	}
	if got != want {
		t.Errorf("Recompute() = %+v, want %+v", got, want)
	}
}

func TestRecomputeClassifiesSeverity(t *testing.T) {
	items := []alerts.Alert{
		{Geography: "A", Severity: "red"},
		{Geography: "a", Severity: "Critical"},
		{Geography: "A", Severity: "HIGH "},
		{Geography: "B", Severity: "AMBER"},
	}

	got := alerts.Recompute(items, nil)
	if got.CriticalCount != 3 {
		t.Errorf("CriticalCount = %d, want 3", got.CriticalCount)
	}
	if got.GeographyCount != 3 {
		t.Errorf("GeographyCount = %d, want 3 (case-sensitive)", got.GeographyCount)
	}
}

func TestRecomputeIsPure(t *testing.T) {
	latest := briefing.Sample()
	items := alerts.Sample()
	before := slices.Clone(items)

	first := alerts.Recompute(items, &latest)
	second := alerts.Recompute(items, &latest)

	if first != second {
		t.Errorf("Recompute not idempotent: %+v vs %+v", first, second)
	}
	if diff := cmp.Diff(before, items); diff != "" {
		t.Errorf("Recompute mutated input (-before +after):\n%s", diff)
	}
}

func tier(t briefing.Tier) *briefing.Tier { return &t }

func severityFixture() []alerts.Alert {
	return []alerts.Alert{
		{ID: "1", Severity: "RED", Geography: "Southeast Florida", Metric: "YoY Growth Rate"},
		{ID: "2", Severity: "RED", Geography: "Southeast Florida", Metric: "Coastal Exposure Ratio"},
		{ID: "3", Severity: "AMBER", Geography: "Southeast Florida", Metric: "Concentration Score"},
		{ID: "4", Severity: "AMBER", Geography: "Gulf Coast Texas", Metric: "Wind Exposure TIV"},
		{ID: "5", Severity: "UNKNOWN_GREEN", Geography: "Pacific Northwest", Metric: "Earthquake PML"},
	}
}

func ids(items []alerts.Alert) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterSeverity(t *testing.T) {
	got := alerts.Filter(severityFixture(), alerts.Query{Severity: tier(briefing.Classify("RED"))})
	if diff := cmp.Diff([]string{"1", "2"}, ids(got)); diff != "" {
		t.Errorf("Filter(RED) (-want +got):\n%s", diff)
	}
}

func TestFilterPredicatesAreConjunctive(t *testing.T) {
	got := alerts.Filter(severityFixture(), alerts.Query{Severity: tier(briefing.TierCritical), Text: "texas"})
	if len(got) != 0 {
		t.Errorf("Filter(RED, texas) = %v, want empty", ids(got))
	}
}

func TestFilterText(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"FLORIDA", []string{"1", "2", "3"}},
		{"pml", []string{"5"}},
		{"exposure", []string{"2", "4"}},
		{"", []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := alerts.Filter(severityFixture(), alerts.Query{Text: tt.text})
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("Filter(%q) (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestFilterCommutes(t *testing.T) {
	items := severityFixture()
	sev := alerts.Query{Severity: tier(briefing.TierWarning)}
	txt := alerts.Query{Text: "southeast"}

	a := alerts.Filter(alerts.Filter(items, sev), txt)
	b := alerts.Filter(alerts.Filter(items, txt), sev)
	both := alerts.Filter(items, alerts.Query{Severity: sev.Severity, Text: txt.Text})

	if diff := cmp.Diff(ids(a), ids(b)); diff != "" {
		t.Errorf("filters do not commute (-sev,txt +txt,sev):\n%s", diff)
	}
	if diff := cmp.Diff(ids(a), ids(both)); diff != "" {
		t.Errorf("composed filter differs from combined query:\n%s", diff)
	}
}

func TestFilterUnknownTier(t *testing.T) {
	got := alerts.Filter(severityFixture(), alerts.Query{Severity: tier(briefing.TierUnknown)})
	if diff := cmp.Diff([]string{"5"}, ids(got)); diff != "" {
		t.Errorf("Filter(UNKNOWN) (-want +got):\n%s", diff)
	}
}

func TestSortByTimestampDesc(t *testing.T) {
	items := []alerts.Alert{
		{ID: "old", Timestamp: "2025-06-13T16:45:00Z"},
		{ID: "bad", Timestamp: "yesterday"},
		{ID: "new", Timestamp: "2025-06-15T14:30:00Z"},
		{ID: "new-tie", Timestamp: "2025-06-15T14:30:00Z"},
		{ID: "mid", Timestamp: "2025-06-14T09:15:00Z"},
	}

	got := alerts.SortByTimestampDesc(items)
	want := []string{"new", "new-tie", "mid", "old", "bad"}
	if diff := cmp.Diff(want, ids(got)); diff != "" {
		t.Errorf("SortByTimestampDesc (-want +got):\n%s", diff)
	}
	if items[0].ID != "old" {
		t.Error("SortByTimestampDesc reordered its input")
	}
}
