package ui

import (
	"log/slog"
	"time"
)

// statusLine is the transient message at the bottom of the screen.
type statusLine struct {
	text  string
	isErr bool
	at    time.Time
}

// setError shows a failed action. Errors stay until replaced.
func (m *Model) setError(action string, err error) {
	if err == nil {
		return
	}
	m.logger.Debug("ui action failed", slog.String("action", action), slog.Any("error", err))
	m.status = statusLine{text: action + ": " + err.Error(), isErr: true, at: time.Now()}
}

// setInfo shows text for StatusTTL.
func (m *Model) setInfo(text string) {
	m.status = statusLine{text: text, at: time.Now()}
}

func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.status.text == "":
	case m.status.isErr:
		content = bg.Render("!", styles.DangerText) + bg.Space() + bg.Render(truncate(m.status.text, m.width-4), styles.DangerText)
	case time.Since(m.status.at) < StatusTTL:
		content = bg.Render(truncate(m.status.text, m.width-2), styles.MutedText)
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).MaxHeight(1).Render(content)
}
