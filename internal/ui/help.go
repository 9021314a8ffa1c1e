package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"tab/shift+tab", "Cycle views"},
				{"1-5", "Articles/Albums/Photos/Stats/Log"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"[ / ]", "Previous/next page"},
			},
		},
		{
			title: "Editing",
			items: []helpItem{
				{"n", "New"},
				{"e", "Edit selected (profile on stats)"},
				{"d", "Delete selected"},
				{"p", "Publish/unpublish article"},
				{"y", "Copy content or URL"},
				{"enter", "Open album"},
				{"r", "Refresh from server"},
			},
		},
		{
			title: "Log",
			items: []helpItem{
				{"space", "Toggle follow mode"},
				{"l", "Cycle minimum level"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(15)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	return placeModal(m.theme, m.width, m.height, 52, b.String())
}
