package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderArticles renders the article list with a markdown preview of the
// selected article beside it.
func (m Model) renderArticles() string {
	height := m.contentHeight()
	listWidth, previewWidth := m.splitWidths()

	title := fmt.Sprintf("Articles · %d · %s", m.snapshot.Articles.Total,
		pageLabel(m.articlePage, m.snapshot.Articles.Total, m.pageSize))
	if m.loading[ViewArticles] {
		title += " " + m.spinner.View()
	}
	empty := "No articles. Press n to write one."
	if !m.snapshot.HasArticles {
		empty = "Loading articles..."
	}
	list := m.renderRows(title, m.rows(ViewArticles), m.selected[ViewArticles], listWidth, height, empty)
	if previewWidth == 0 {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, m.renderArticlePreview(previewWidth, height))
}

func (m Model) renderArticlePreview(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	row, ok := m.selectedRow(ViewArticles)
	if !ok || m.articles == nil {
		return m.renderTitledBox("Preview", "", width, height, false)
	}
	article, _ := findByID(m.articles.View(), row.id)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(article.Title))
	b.WriteString("\n")
	meta := []string{styles.StatusStyle(article.Status()).Render(article.Status())}
	if article.Slug != "" {
		meta = append(meta, styles.MutedText.Render("/"+article.Slug))
	}
	if article.Views > 0 {
		meta = append(meta, styles.MutedText.Render(fmt.Sprintf("%d views", article.Views)))
	}
	if t := article.ParsedUpdatedAt(); !t.IsZero() {
		meta = append(meta, styles.FaintText.Render("updated "+t.Local().Format("2006-01-02 15:04")))
	}
	b.WriteString(strings.Join(meta, styles.FaintText.Render(" · ")))
	b.WriteString("\n")
	if article.Summary != "" {
		b.WriteString("\n")
		b.WriteString(styles.InfoText.Render(truncate(article.Summary, max(width-6, 10)*2)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	body := m.markdown.render(article.Content, max(width-6, 10), m.theme.MarkdownStyle)
	if body == "" {
		body = styles.FaintText.Render("(empty)")
	}
	b.WriteString(body)

	vp := m.preview
	vp.SetContent(b.String())
	return m.renderTitledBox("Preview", vp.View(), width, height, false)
}

// renderAlbums renders the album list.
func (m Model) renderAlbums() string {
	title := fmt.Sprintf("Albums · %d · %s", m.albumTotal, pageLabel(m.albumPage, m.albumTotal, m.pageSize))
	if m.loading[ViewAlbums] {
		title += " " + m.spinner.View()
	}
	return m.renderRows(title, m.rows(ViewAlbums), m.selected[ViewAlbums], m.width, m.contentHeight(),
		"No albums. Press n to create one.")
}

// renderPhotos renders the photos of the open album.
func (m Model) renderPhotos() string {
	if m.photoAlbum.ID <= 0 {
		return m.renderTitledBox("Photos", " Select an album and press enter.", m.width, m.contentHeight(), true)
	}
	title := fmt.Sprintf("Photos · %s", m.photoAlbum.Title)
	if m.loading[ViewPhotos] {
		title += " " + m.spinner.View()
	}
	return m.renderRows(title, m.rows(ViewPhotos), m.selected[ViewPhotos], m.width, m.contentHeight(),
		"No photos. Press n to add one.")
}

// renderStats renders site counters and the profile.
func (m Model) renderStats() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	height := m.contentHeight()

	if !m.snapshot.HasStats {
		msg := " Loading stats..."
		if m.snapshot.LastError != nil {
			msg = " " + styles.DangerText.Render(classifyConnectionError(m.snapshot.LastError)) +
				styles.MutedText.Render(" "+truncate(m.snapshot.LastError.Error(), max(m.width-20, 10)))
		}
		return m.renderTitledBox("Stats", msg, m.width, height, true)
	}

	s := m.snapshot.Stats
	label := lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color(m.theme.Muted)).Background(lipgloss.Color(m.theme.SurfaceAlt))
	line := func(name, value string) string {
		return " " + label.Render(name) + styles.Text.Render(value)
	}

	counters := []string{
		line("Articles", fmt.Sprintf("%d (%d published)", s.Articles, s.Published)),
		line("Albums", fmt.Sprintf("%d", s.Albums)),
		line("Photos", fmt.Sprintf("%d", s.Photos)),
		line("Views", fmt.Sprintf("%d", s.Views)),
		line("Visitors", fmt.Sprintf("%d", s.Visitors)),
	}
	if m.snapshot.IsOffline() {
		counters = append(counters, "", " "+styles.WarningText.Render("Showing last known values; CMS unreachable"))
	}

	var profile []string
	if m.snapshot.HasProfile {
		p := m.snapshot.Profile
		profile = []string{
			line("Name", p.Name),
			line("Email", p.Email),
			line("Website", p.Website),
			line("Bio", truncate(p.Bio, max(m.width-24, 10))),
		}
	}

	statsHeight := len(counters) + 2
	if m.width >= LayoutCompactWidth || len(profile) == 0 {
		half := m.width / 2
		if len(profile) == 0 {
			return m.renderTitledBox("Stats", strings.Join(counters, "\n"), m.width, height, true)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderTitledBox("Stats", strings.Join(counters, "\n"), half, height, true),
			m.renderTitledBox("Profile", strings.Join(profile, "\n"), m.width-half, height, false))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitledBox("Stats", strings.Join(counters, "\n"), m.width, statsHeight, true),
		m.renderTitledBox("Profile", strings.Join(profile, "\n"), m.width, max(height-statsHeight, 3), false))
}
