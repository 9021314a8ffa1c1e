package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top bar: connection state, counters, and the
// time of the last refresh.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("quill", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(m.snapshot.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)))
	case m.snapshot.HasStats:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	default:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	}

	if m.snapshot.HasStats {
		s := m.snapshot.Stats
		if compact {
			parts = append(parts, bg.Render(fmt.Sprintf("A:%d P:%d", s.Articles, s.Published), styles.MutedText))
		} else {
			parts = append(parts,
				bg.Render("Articles:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", s.Articles), styles.Text),
				bg.Render("Published:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", s.Published), styles.Text),
				bg.Render("Views:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", s.Views), styles.Text))
		}
	}

	if pending := m.totalPending(); pending > 0 {
		parts = append(parts,
			bg.Render(m.spinner.View(), styles.InfoText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d saving", pending), styles.InfoText))
	}

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	if m.snapshot.LastError != nil && !compact {
		parts = append(parts,
			bg.Render("ERROR", styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), 60), styles.DangerText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		MaxWidth(m.width).MaxHeight(1).
		Render(bg.Join(parts, "  "))
}

func (m Model) totalPending() int {
	return m.pendingCount(ViewArticles) + m.pendingCount(ViewAlbums) + m.pendingCount(ViewPhotos)
}

// formatTimestamp formats the last stats refresh with a relative indicator.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}

	since := time.Since(last)
	out := last.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"):
		return "UNAUTHORIZED"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLog:
		follow := "Pause"
		if !m.logState.follow {
			follow = "Follow"
		}
		commands = []cmd{
			{"Space", follow},
			{"l", "Level"},
			{"j/k", "Scroll"},
			{"r", "Reload"},
			{"?", "More"},
		}
	case ViewStats:
		commands = []cmd{
			{"r", "Refresh"},
			{"e", "Edit profile"},
			{"1-5", "Views"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"n", "New"},
			{"e", "Edit"},
			{"d", "Delete"},
		}
		switch m.currentView {
		case ViewArticles:
			commands = append(commands, cmd{"p", "Publish"}, cmd{"y", "Copy"}, cmd{"[/]", "Page"})
		case ViewAlbums:
			commands = append(commands, cmd{"enter", "Photos"}, cmd{"[/]", "Page"})
		case ViewPhotos:
			commands = append(commands, cmd{"y", "Copy URL"}, cmd{"esc", "Albums"})
		}
		commands = append(commands, cmd{"r", "Refresh"}, cmd{"?", "More"})
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+2)
	segments = append(segments, bg.Render(titleCase(m.currentView.String()), styles.AccentText.Bold(true)))
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(strings.Join(segments, bg.Spaces(2)))
}
