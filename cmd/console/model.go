package main

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/vantage/internal/activity"
	"github.com/JaimeStill/vantage/internal/alerts"
	"github.com/JaimeStill/vantage/internal/session"
)

const pollInterval = 500 * time.Millisecond

type replyMsg struct {
	snap session.Snapshot
	err  error
}

type tickMsg time.Time

type model struct {
	ctx  context.Context
	sess session.System

	input      textinput.Model
	transcript viewport.Model
	spinner    spinner.Model
	renderer   *glamour.TermRenderer
	theme      theme

	snap     session.Snapshot
	activity activity.Snapshot
	extra    string
	notice   string
	pending  bool
	width    int
	height   int
}

func newModel(ctx context.Context, sess session.System) model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "Ask about a region, peril, or line of business. /help for commands."
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(amber)

	return model{
		ctx:        ctx,
		sess:       sess,
		input:      input,
		transcript: viewport.New(0, 0),
		spinner:    sp,
		theme:      newTheme(),
		snap:       sess.Snapshot(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) send(text string) tea.Cmd {
	return func() tea.Msg {
		snap, err := m.sess.SendText(m.ctx, text)
		return replyMsg{snap: snap, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()

	case tickMsg:
		m.activity = m.sess.Activity()
		cmds = append(cmds, tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case replyMsg:
		m.pending = false
		m.snap = msg.snap
		if msg.err != nil {
			m.notice = msg.err.Error()
			m.snap = m.sess.Snapshot()
		}
		m.extra = ""
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.notice = ""
			if strings.HasPrefix(text, "/") {
				return m, m.command(text)
			}
			if text == "" || m.pending {
				return m, nil
			}
			m.pending = true
			m.snap.Messages = append(m.snap.Messages, session.Message{
				Role:      session.RoleUser,
				Content:   text,
				Timestamp: time.Now().Format(time.Kitchen),
			})
			m.refresh()
			return m, m.send(text)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// command runs a slash command and returns a follow-up, if any.
func (m *model) command(line string) tea.Cmd {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return nil
	}

	var err error
	switch fields[0] {
	case "quit", "exit":
		return tea.Quit
	case "sample":
		err = m.sess.LoadSample()
	case "reset":
		err = m.sess.Reset()
	case "dismiss":
		m.sess.DismissError()
	case "alerts":
		q := alertQuery(fields[1:])
		m.extra = "## Alerts\n\n" + alertsMarkdown(alerts.Filter(m.sess.Alerts(), q))
	case "help":
		m.extra = helpText
	default:
		m.notice = "unknown command /" + fields[0]
	}
	if err != nil {
		m.notice = err.Error()
	}

	if fields[0] != "alerts" && fields[0] != "help" {
		m.extra = ""
	}
	m.snap = m.sess.Snapshot()
	m.refresh()
	return nil
}

// alertQuery reads "[severity] [search...]". A leading word that is not a
// tier filter starts the search text.
func alertQuery(args []string) alerts.Query {
	values := url.Values{}
	if len(args) > 0 && isTierFilter(args[0]) {
		values.Set("severity", args[0])
		args = args[1:]
	}
	values.Set("search", strings.Join(args, " "))
	return alerts.QueryFromValues(values)
}

func isTierFilter(s string) bool {
	switch strings.ToLower(s) {
	case "all", "any", "critical", "warning", "ok", "unknown", "red", "amber", "green", "high", "medium", "low":
		return true
	}
	return false
}

const helpText = `## Commands

- ` + "`/sample`" + ` load the sample briefing
- ` + "`/alerts [severity] [search]`" + ` list alerts, e.g. ` + "`/alerts critical florida`" + `
- ` + "`/dismiss`" + ` clear the error banner
- ` + "`/reset`" + ` start over
- ` + "`/quit`" + ` exit
`

func (m *model) resize() {
	wrap := max(m.width-4, 20)
	m.renderer, _ = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)

	// header, activity line, banner, input box, help
	chrome := 8
	m.transcript.Width = m.width
	m.transcript.Height = max(m.height-chrome, 3)
	m.input.Width = max(m.width-8, 10)
}

func (m *model) refresh() {
	md := transcriptMarkdown(m.snap.Messages)
	if m.extra != "" {
		md += "\n" + m.extra
	}

	out := md
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(md); err == nil {
			out = rendered
		}
	}
	m.transcript.SetContent(out)
	m.transcript.GotoBottom()
}

func (m model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.header.Render("Vantage"),
		m.theme.renderStats(m.snap.Stats),
	)

	var status string
	switch {
	case m.pending:
		line := "analyzing"
		if m.activity.ActiveAgent != "" {
			line = m.activity.ActiveAgent
		}
		if m.activity.LatestThinking != "" {
			line += ": " + m.activity.LatestThinking
		}
		status = m.spinner.View() + " " + m.theme.status.Render(truncate(line, m.width-4))
	case m.notice != "":
		status = m.theme.status.Render(m.notice)
	}

	var banner string
	if m.snap.Error != "" {
		banner = m.theme.banner.Render(m.snap.Error + "  (/dismiss)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.transcript.View(),
		status,
		banner,
		m.theme.input.Render(m.input.View()),
		m.theme.help.Render("enter send · pgup/pgdown scroll · /help · ctrl+c quit"),
	)
}

func truncate(s string, n int) string {
	if n <= 1 || len([]rune(s)) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
