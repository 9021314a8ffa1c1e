package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmDeleteMsg is sent when the user confirms a delete.
type confirmDeleteMsg struct {
	target editTarget
}

// confirmModal asks before deleting a row.
type confirmModal struct {
	target editTarget
	label  string
}

func newConfirmModal(target editTarget, label string) confirmModal {
	return confirmModal{target: target, label: label}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Confirm), keyMsg.String() == "y":
		target := c.target
		return c, func() tea.Msg { return confirmDeleteMsg{target: target} }, true
	case key.Matches(keyMsg, keys.Cancel), keyMsg.String() == "n":
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.DangerText.Render(fmt.Sprintf("Delete %s?", c.target.noun())))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(truncate(c.label, 40)))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("enter/y") + styles.MutedText.Render(" delete   ") +
		styles.AccentText.Render("esc/n") + styles.MutedText.Render(" cancel"))

	return placeModal(theme, width, height, 48, b.String())
}

// placeModal centers a bordered box of boxWidth over the screen.
func placeModal(theme Theme, width, height, boxWidth int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth).
		Render(content)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
