package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/logtail"
)

// logLevels is the order the level filter cycles through.
var logLevels = []string{"debug", "info", "warn", "error"}

// logState holds the log view's data and filters.
type logState struct {
	follow   bool
	minLevel string
	lines    []string
	err      error
}

type logLoadedMsg struct {
	lines []string
	err   error
}

// refreshLogs reads the tail of the log file.
func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLoadedMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLoaded(msg logLoadedMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
}

// updateLogViewport rebuilds the viewport content from the loaded lines.
func (m *Model) updateLogViewport() {
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.formatLogs())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// formatLogs colorizes the loaded lines that pass the level filter.
func (m Model) formatLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	if len(m.logState.lines) == 0 {
		return styles.FaintText.Render("No log output yet.")
	}

	var b strings.Builder
	width := max(m.logViewport.Width, 20)
	for _, line := range m.logState.lines {
		entry := logtail.Parse(line)
		if !entry.AtLeast(m.logState.minLevel) {
			continue
		}
		b.WriteString(m.formatLogEntry(entry, styles, width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) formatLogEntry(entry logtail.Entry, styles Styles, width int) string {
	if entry.Level == "" {
		return styles.MutedText.Render(truncate(entry.Raw, width))
	}

	levelStyle := styles.InfoText
	switch entry.Level {
	case "DEBUG":
		levelStyle = styles.FaintText
	case "WARN":
		levelStyle = styles.WarningText
	case "ERROR":
		levelStyle = styles.DangerText
	}

	parts := []string{
		styles.FaintText.Render(entry.ShortTime()),
		levelStyle.Render(padRight(entry.Level, 5)),
	}
	if component, ok := entry.Attr("component"); ok {
		parts = append(parts, styles.AccentText.Render(component))
	} else if collection, ok := entry.Attr("collection"); ok {
		parts = append(parts, styles.AccentText.Render(collection))
	}
	parts = append(parts, styles.Text.Render(entry.Message))

	var attrs []string
	for _, a := range entry.Attrs {
		if a.Key == "component" || a.Key == "collection" {
			continue
		}
		attrs = append(attrs, fmt.Sprintf("%s=%s", a.Key, a.Value))
	}
	line := strings.Join(parts, " ")
	if len(attrs) > 0 {
		room := width - lipgloss.Width(line) - 1
		if room > 8 {
			line += " " + styles.MutedText.Render(truncate(strings.Join(attrs, " "), room))
		}
	}
	return line
}

// handleLogKey handles keys in the log view.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.refreshLogs()
		}
	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.minLevel = nextLogLevel(m.logState.minLevel)
		m.updateLogViewport()
	case key.Matches(msg, m.keys.Refetch):
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.NextPage):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PrevPage):
		m.logState.follow = false
		m.logViewport.PageUp()
	}
	return m, nil
}

func nextLogLevel(current string) string {
	for i, level := range logLevels {
		if level == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	title := "Log · " + truncateMiddle(m.logPath, max(m.width/2, 10))
	if m.logPath == "" {
		return m.renderTitledBox("Log", " "+styles.FaintText.Render("Logging to file is disabled."), m.width, m.contentHeight(), true)
	}

	follow := "paused"
	if m.logState.follow {
		follow = "following"
	}
	info := styles.MutedText.Render("level ≥ ") + styles.AccentText.Render(m.logState.minLevel) +
		styles.FaintText.Render(" · ") + styles.MutedText.Render(follow)
	if m.logState.err != nil {
		info += styles.FaintText.Render(" · ") + styles.DangerText.Render(truncate(m.logState.err.Error(), 60))
	}

	content := info + "\n" + m.logViewport.View()
	return m.renderTitledBox(title, content, m.width, m.contentHeight(), true)
}
