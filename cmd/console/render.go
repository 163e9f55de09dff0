package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/vantage/internal/alerts"
	"github.com/JaimeStill/vantage/internal/briefing"
	"github.com/JaimeStill/vantage/internal/session"
)

var (
	red   = lipgloss.Color("#ff5f5f")
	amber = lipgloss.Color("#ffb347")
	green = lipgloss.Color("#5fd787")
	muted = lipgloss.Color("#7d8590")
	ink   = lipgloss.Color("#e6edf3")
)

type theme struct {
	header  lipgloss.Style
	stat    lipgloss.Style
	statKey lipgloss.Style
	banner  lipgloss.Style
	status  lipgloss.Style
	help    lipgloss.Style
	input   lipgloss.Style
}

func newTheme() theme {
	return theme{
		header: lipgloss.NewStyle().
			Foreground(ink).
			Bold(true).
			Padding(0, 1),
		stat:    lipgloss.NewStyle().Foreground(ink).Bold(true),
		statKey: lipgloss.NewStyle().Foreground(muted),
		banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1b1b1b")).
			Background(red).
			Padding(0, 1),
		status: lipgloss.NewStyle().Foreground(amber),
		help:   lipgloss.NewStyle().Foreground(muted),
		input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
	}
}

func tierColor(t briefing.Tier) lipgloss.Color {
	switch t {
	case briefing.TierCritical:
		return red
	case briefing.TierWarning:
		return amber
	case briefing.TierOK:
		return green
	default:
		return muted
	}
}

func (t theme) renderStats(s alerts.Stats) string {
	item := func(k, v string) string {
		return t.statKey.Render(k+" ") + t.stat.Render(v)
	}
	score := t.stat.Foreground(scoreColor(s.ConcentrationScore)).Render(fmt.Sprint(s.ConcentrationScore))
	return strings.Join([]string{
		item("geographies", fmt.Sprint(s.GeographyCount)),
		item("critical", fmt.Sprint(s.CriticalCount)),
		t.statKey.Render("score ") + score,
		item("top", s.TopRegion),
	}, "  ")
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return red
	case score >= 60:
		return amber
	default:
		return green
	}
}

// transcriptMarkdown renders every message as one markdown document.
func transcriptMarkdown(msgs []session.Message) string {
	if len(msgs) == 0 {
		return "_Ask about a region, line of business, or peril to get a concentration briefing. Type `/sample` to load an example._\n"
	}

	var b strings.Builder
	for _, m := range msgs {
		switch {
		case m.Role == session.RoleUser:
			fmt.Fprintf(&b, "**You** · %s\n\n> %s\n\n", m.Timestamp, m.Content)
		case m.Briefing != nil:
			b.WriteString(briefingMarkdown(*m.Briefing))
		default:
			fmt.Fprintf(&b, "**Agent** · %s\n\n%s\n\n", m.Timestamp, m.Content)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

func briefingMarkdown(br briefing.Briefing) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s · %s\n\n", br.Tier(), br.Geography)
	if br.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", br.Summary)
	}

	e := br.Exposure
	b.WriteString("| Policies | Insured value | Concentration | YoY growth |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %s | %d | %s |\n\n", e.TotalPolicies, cell(e.TotalInsuredValue), e.ConcentrationScore, cell(e.YoYGrowth))

	if len(br.Breaches) > 0 {
		b.WriteString("### Threshold breaches\n\n| Metric | Current | Threshold | Status |\n|---|---|---|---|\n")
		for _, x := range br.Breaches {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(x.Metric), cell(x.CurrentValue), cell(x.Threshold), x.Tier())
		}
		b.WriteString("\n")
	}

	if len(br.LOB) > 0 {
		b.WriteString("### Lines of business\n\n")
		for _, l := range br.LOB {
			fmt.Fprintf(&b, "- %s: %s%% (%s)\n", l.LineOfBusiness, l.Percentage, l.InsuredValue)
		}
		b.WriteString("\n")
	}

	if len(br.Intermediaries) > 0 {
		b.WriteString("### Intermediaries\n\n")
		for _, i := range br.Intermediaries {
			fmt.Fprintf(&b, "- %s: %s%%\n", i.Name, i.Percentage)
		}
		b.WriteString("\n")
	}

	if len(br.Threats) > 0 {
		b.WriteString("### Current threats\n\n")
		for _, t := range br.Threats {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", t.Name, t.Tier(), t.Description)
		}
		b.WriteString("\n")
	}

	if actions := br.ActionsByPriority(); len(actions) > 0 {
		b.WriteString("### Remedial actions\n\n")
		for n, a := range actions {
			fmt.Fprintf(&b, "%d. **%s** _%s_\n   %s\n", n+1, a.Action, briefing.UrgencyOf(a.Urgency), a.Rationale)
		}
		b.WriteString("\n")
	}

	if br.RiskAppetiteStatus != "" {
		fmt.Fprintf(&b, "**Risk appetite:** %s\n\n", br.RiskAppetiteStatus)
	}
	if br.HistoricalContext != "" {
		fmt.Fprintf(&b, "**History:** %s\n\n", br.HistoricalContext)
	}
	return b.String()
}

// alertsMarkdown renders alerts newest first.
func alertsMarkdown(items []alerts.Alert) string {
	if len(items) == 0 {
		return "_No alerts match._\n"
	}

	var b strings.Builder
	b.WriteString("| Severity | Geography | Metric | Current | Threshold | Time |\n|---|---|---|---|---|---|\n")
	for _, a := range alerts.SortByTimestampDesc(items) {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			a.Tier(), cell(a.Geography), cell(a.Metric), cell(a.CurrentValue), cell(a.Threshold), a.Timestamp)
	}
	return b.String()
}

// cell keeps a value from breaking a markdown table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
