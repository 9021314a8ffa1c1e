package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/quill/internal/admin"
	"github.com/five82/quill/internal/cms"
)

// Load results.

type articlesLoadedMsg struct {
	page cms.Page[cms.Article]
	err  error
}

type albumsLoadedMsg struct {
	page cms.Page[cms.Album]
	err  error
}

type photosLoadedMsg struct {
	albumID int64
	page    cms.Page[cms.Photo]
	err     error
}

type statsLoadedMsg struct {
	stats   *cms.Stats
	profile *cms.Profile
	err     error
}

// listRow is the view-independent shape of one list line.
type listRow struct {
	id       int64
	title    string
	meta     string
	status   string
	loading  bool
	deleting bool
}

// rows returns the list rows of view, optimistic changes included.
func (m Model) rows(view View) []listRow {
	switch view {
	case ViewArticles:
		if m.articles == nil {
			return nil
		}
		items := m.articles.View()
		out := make([]listRow, len(items))
		for i, a := range items {
			out[i] = listRow{
				id:       a.ID,
				title:    a.Title,
				meta:     strings.Join(a.Tags, ", "),
				status:   a.Status(),
				loading:  a.Loading,
				deleting: a.Deleting,
			}
		}
		return out
	case ViewAlbums:
		if m.albums == nil {
			return nil
		}
		items := m.albums.View()
		out := make([]listRow, len(items))
		for i, a := range items {
			out[i] = listRow{
				id:       a.ID,
				title:    a.Title,
				meta:     fmt.Sprintf("%d photos", a.PhotoCount),
				status:   rowStatus(a.Loading, a.Deleting),
				loading:  a.Loading,
				deleting: a.Deleting,
			}
		}
		return out
	case ViewPhotos:
		if m.photos == nil {
			return nil
		}
		items := m.photos.View()
		out := make([]listRow, len(items))
		for i, p := range items {
			title := p.Title
			if title == "" {
				title = p.URL
			}
			meta := ""
			if p.Width > 0 && p.Height > 0 {
				meta = fmt.Sprintf("%dx%d", p.Width, p.Height)
			}
			out[i] = listRow{
				id:       p.ID,
				title:    title,
				meta:     meta,
				status:   rowStatus(p.Loading, p.Deleting),
				loading:  p.Loading,
				deleting: p.Deleting,
			}
		}
		return out
	default:
		return nil
	}
}

func rowStatus(loading, deleting bool) string {
	switch {
	case deleting:
		return "deleting"
	case loading:
		return "saving"
	default:
		return "ready"
	}
}

// selectedRow returns the highlighted row of view.
func (m Model) selectedRow(view View) (listRow, bool) {
	rows := m.rows(view)
	idx := m.selected[view]
	if idx < 0 || idx >= len(rows) {
		return listRow{}, false
	}
	return rows[idx], true
}

// clampSelection keeps every selection inside its list.
func (m *Model) clampSelection() {
	for _, v := range []View{ViewArticles, ViewAlbums, ViewPhotos} {
		n := len(m.rows(v))
		switch {
		case n == 0:
			m.selected[v] = 0
		case m.selected[v] >= n:
			m.selected[v] = n - 1
		case m.selected[v] < 0:
			m.selected[v] = 0
		}
	}
}

// handleListKey handles keys for the articles, albums and photos views.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.currentView
	n := len(m.rows(view))

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected[view] < n-1 {
			m.selected[view]++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected[view] > 0 {
			m.selected[view]--
		}
	case key.Matches(msg, m.keys.Top):
		m.selected[view] = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected[view] = max(n-1, 0)

	case key.Matches(msg, m.keys.NextPage):
		cmd := m.changePage(1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevPage):
		cmd := m.changePage(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Refetch):
		cmd := m.refetch()
		return m, cmd

	case key.Matches(msg, m.keys.New):
		if view == ViewPhotos && m.photoAlbum.ID <= 0 {
			m.setError("new photo", errNoAlbum)
			return m, nil
		}
		m.modal = newEditor(editTarget{view: view, kind: admin.Create}, nil)
	case key.Matches(msg, m.keys.Edit):
		m.openEditor(view)
	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow(view)
		if !ok {
			return m, nil
		}
		target := editTarget{view: view, kind: admin.Delete, id: row.id}
		if err := m.checkEditable(target); err != nil {
			m.setError(target.String(), err)
			return m, nil
		}
		m.modal = newConfirmModal(target, row.title)
	case key.Matches(msg, m.keys.Publish):
		if view != ViewArticles {
			return m, nil
		}
		row, ok := m.selectedRow(view)
		if !ok {
			return m, nil
		}
		if err := m.checkEditable(editTarget{view: view, kind: admin.Edit, id: row.id}); err != nil {
			m.setError("publish article", err)
			return m, nil
		}
		cmd := m.togglePublish(row.id)
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected(view)

	case key.Matches(msg, m.keys.Open):
		if view == ViewAlbums {
			cmd := m.openAlbum()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Back):
		if view == ViewPhotos {
			return m.switchView(ViewAlbums)
		}
	}
	return m, nil
}

// openEditor opens the edit form for the selected row.
func (m *Model) openEditor(view View) {
	row, ok := m.selectedRow(view)
	if !ok {
		return
	}
	target := editTarget{view: view, kind: admin.Edit, id: row.id}
	if err := m.checkEditable(target); err != nil {
		m.setError(target.String(), err)
		return
	}
	var values map[string]string
	switch view {
	case ViewArticles:
		if a, ok := findByID(m.articles.View(), row.id); ok {
			values = articleValues(a)
		}
	case ViewAlbums:
		if a, ok := findByID(m.albums.View(), row.id); ok {
			values = albumValues(a)
		}
	case ViewPhotos:
		if p, ok := findByID(m.photos.View(), row.id); ok {
			values = photoValues(p)
		}
	}
	m.modal = newEditor(target, values)
}

// openProfileEditor opens the edit form for the author profile.
func (m *Model) openProfileEditor() {
	target := editTarget{view: ViewStats, kind: admin.Edit}
	if !m.snapshot.HasProfile {
		m.setError(target.String(), errNoProfile)
		return
	}
	m.modal = newEditor(target, profileValues(m.snapshot.Profile))
}

// checkEditable refuses edits and deletes of provisional rows and of rows
// whose previous change is still in flight.
func (m Model) checkEditable(target editTarget) error {
	if target.id < 0 {
		return errProvisional
	}
	if m.rowBusy(target.view, target.id) {
		return admin.ErrBusy
	}
	return nil
}

// rowBusy reports whether the row id of view has a mutation in flight.
func (m Model) rowBusy(view View, id int64) bool {
	switch view {
	case ViewArticles:
		return m.articles != nil && m.articles.Busy(admin.Mutation[cms.Article]{Kind: admin.Edit, Entity: cms.Article{ID: id}})
	case ViewAlbums:
		return m.albums != nil && m.albums.Busy(admin.Mutation[cms.Album]{Kind: admin.Edit, Entity: cms.Album{ID: id}})
	case ViewPhotos:
		return m.photos != nil && m.photos.Busy(admin.Mutation[cms.Photo]{Kind: admin.Edit, Entity: cms.Photo{ID: id}})
	}
	return false
}

// copySelected copies the most useful field of the selected row.
func (m Model) copySelected(view View) tea.Cmd {
	row, ok := m.selectedRow(view)
	if !ok {
		return nil
	}
	switch view {
	case ViewArticles:
		if a, ok := findByID(m.articles.View(), row.id); ok {
			return copyCmd(m.copyText, "article markdown", a.Content)
		}
	case ViewAlbums:
		return copyCmd(m.copyText, "album title", row.title)
	case ViewPhotos:
		if p, ok := findByID(m.photos.View(), row.id); ok {
			return copyCmd(m.copyText, "photo URL", p.URL)
		}
	}
	return nil
}

// openAlbum switches to the photos of the selected album.
func (m *Model) openAlbum() tea.Cmd {
	row, ok := m.selectedRow(ViewAlbums)
	if !ok {
		return nil
	}
	if row.id < 0 {
		m.setError("open album", errProvisional)
		return nil
	}
	album, _ := findByID(m.albums.View(), row.id)
	if m.photoAlbum.ID != album.ID && m.photos != nil {
		if err := m.photos.Reset(nil); err != nil {
			m.setError("open album", err)
			return nil
		}
		m.selected[ViewPhotos] = 0
	}
	m.photoAlbum = album
	m.currentView = ViewPhotos
	m.savePrefs()
	m.resizePanes()
	return m.refetch()
}

// changePage moves the articles or albums view by delta pages.
func (m *Model) changePage(delta int) tea.Cmd {
	switch m.currentView {
	case ViewArticles:
		pages := cms.Page[cms.Article]{Total: m.snapshot.Articles.Total, PageSize: m.pageSize}.Pages()
		next := m.articlePage + delta
		if next < 1 || next > pages {
			return nil
		}
		if !m.canReload(ViewArticles) {
			return nil
		}
		m.loading[ViewArticles] = true
		return loadArticlesCmd(m.ctx, m.backend, cms.PageQuery{Page: next, PageSize: m.pageSize})
	case ViewAlbums:
		pages := cms.Page[cms.Album]{Total: m.albumTotal, PageSize: m.pageSize}.Pages()
		next := m.albumPage + delta
		if next < 1 || next > pages {
			return nil
		}
		if !m.canReload(ViewAlbums) {
			return nil
		}
		m.loading[ViewAlbums] = true
		return loadAlbumsCmd(m.ctx, m.backend, cms.PageQuery{Page: next, PageSize: m.pageSize})
	}
	return nil
}

// errPending is shown when a reload would discard optimistic rows.
var errPending = errors.New("changes are still saving")

// canReload reports whether view may be replaced by a fresh fetch. A fetch
// started while mutations are pending would overwrite their rows.
func (m *Model) canReload(view View) bool {
	if m.backend == nil {
		m.setError("refresh", errNoBackend)
		return false
	}
	if m.loading[view] {
		return false
	}
	if m.pendingCount(view) > 0 {
		m.setError("refresh "+view.String(), errPending)
		return false
	}
	return true
}

func (m Model) pendingCount(view View) int {
	switch view {
	case ViewArticles:
		if m.articles != nil {
			return m.articles.PendingCount()
		}
	case ViewAlbums:
		if m.albums != nil {
			return m.albums.PendingCount()
		}
	case ViewPhotos:
		if m.photos != nil {
			return m.photos.PendingCount()
		}
	}
	return 0
}

// refetch reloads the current view from the CMS.
func (m *Model) refetch() tea.Cmd {
	switch m.currentView {
	case ViewArticles:
		if !m.canReload(ViewArticles) {
			return nil
		}
		m.loading[ViewArticles] = true
		return loadArticlesCmd(m.ctx, m.backend, cms.PageQuery{Page: m.articlePage, PageSize: m.pageSize})
	case ViewAlbums:
		if !m.canReload(ViewAlbums) {
			return nil
		}
		m.loading[ViewAlbums] = true
		return loadAlbumsCmd(m.ctx, m.backend, cms.PageQuery{Page: m.albumPage, PageSize: m.pageSize})
	case ViewPhotos:
		if m.photoAlbum.ID <= 0 {
			return nil
		}
		if !m.canReload(ViewPhotos) {
			return nil
		}
		m.loading[ViewPhotos] = true
		return loadPhotosCmd(m.ctx, m.backend, m.photoAlbum.ID, cms.PageQuery{PageSize: 100})
	case ViewStats:
		if m.backend == nil || m.loading[ViewStats] {
			return nil
		}
		m.loading[ViewStats] = true
		return m.statsCmd()
	}
	return nil
}

func loadArticlesCmd(ctx context.Context, backend cms.Backend, query cms.PageQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		page, err := backend.ListArticles(ctx, query)
		return articlesLoadedMsg{page: page, err: err}
	}
}

func loadAlbumsCmd(ctx context.Context, backend cms.Backend, query cms.PageQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		page, err := backend.ListAlbums(ctx, query)
		return albumsLoadedMsg{page: page, err: err}
	}
}

func loadPhotosCmd(ctx context.Context, backend cms.Backend, albumID int64, query cms.PageQuery) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		page, err := backend.ListPhotos(ctx, albumID, query)
		return photosLoadedMsg{albumID: albumID, page: page, err: err}
	}
}

// statsCmd fetches stats and profile together.
func (m Model) statsCmd() tea.Cmd {
	backend := m.backend
	if backend == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, LoadTimeout)
		defer cancel()
		stats, err := backend.FetchStats(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		profile, err := backend.FetchProfile(ctx)
		return statsLoadedMsg{stats: stats, profile: profile, err: err}
	}
}

func (m Model) handleArticlesLoaded(msg articlesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading[ViewArticles] = false
	if msg.err != nil {
		m.setError("load articles", msg.err)
		return m, nil
	}
	if m.articles != nil && m.articles.PendingCount() > 0 {
		m.setError("load articles", errPending)
		return m, nil
	}
	if m.store != nil {
		m.store.SetArticlesPage(msg.page)
		m.snapshot = m.store.Snapshot()
	}
	if msg.page.Page > 0 {
		m.articlePage = msg.page.Page
	}
	m.clampSelection()
	return m, nil
}

func (m Model) handleAlbumsLoaded(msg albumsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading[ViewAlbums] = false
	if msg.err != nil {
		m.setError("load albums", msg.err)
		return m, nil
	}
	if m.albums == nil {
		return m, nil
	}
	if err := m.albums.Reset(msg.page.Items); err != nil {
		m.setError("load albums", errPending)
		return m, nil
	}
	m.albumTotal = msg.page.Total
	if msg.page.Page > 0 {
		m.albumPage = msg.page.Page
	}
	m.clampSelection()
	return m, nil
}

func (m Model) handlePhotosLoaded(msg photosLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading[ViewPhotos] = false
	if msg.albumID != m.photoAlbum.ID {
		return m, nil
	}
	if msg.err != nil {
		m.setError("load photos", msg.err)
		return m, nil
	}
	if m.photos == nil {
		return m, nil
	}
	if err := m.photos.Reset(msg.page.Items); err != nil {
		m.setError("load photos", errPending)
		return m, nil
	}
	m.clampSelection()
	return m, nil
}

// splitWidths returns the list and preview widths. The preview is zero
// when the terminal is too narrow.
func (m Model) splitWidths() (list, preview int) {
	if m.width < LayoutPreviewWidth {
		return m.width, 0
	}
	list = m.width * 2 / 5
	return list, m.width - list
}

// renderRows renders rows into a box of width by height, keeping the
// selected row visible.
func (m Model) renderRows(title string, rows []listRow, selected, width, height int, empty string) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)
	inner := max(width-4, 1)
	visible := max(height-2, 1)

	if len(rows) == 0 {
		return m.renderTitledBox(title, " "+bg.Render(empty, styles.FaintText), width, height, true)
	}

	start := 0
	if selected >= visible {
		start = selected - visible + 1
	}
	end := min(start+visible, len(rows))

	statusWidth := 10
	metaWidth := 0
	if width >= LayoutCompactWidth/2 {
		metaWidth = inner / 4
	}
	titleWidth := max(inner-statusWidth-metaWidth-4, 4)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := rows[i]
		marker := "  "
		if row.loading || row.deleting {
			marker = m.spinner.View() + " "
		}
		text := padRight(truncate(row.title, titleWidth), titleWidth)
		meta := padRight(truncate(row.meta, metaWidth), metaWidth)
		status := padRight(row.status, statusWidth)

		if i == selected {
			line := marker + text + " " + meta + " " + status
			lines = append(lines, " "+styles.Selected.Width(inner).Render(line))
			continue
		}

		titleStyle := styles.Text
		if row.deleting {
			titleStyle = styles.Deleting
		} else if row.loading {
			titleStyle = styles.MutedText
		}
		lines = append(lines, " "+
			bg.Render(marker, styles.InfoText)+
			titleStyle.Render(text)+bg.Space()+
			styles.FaintText.Render(meta)+bg.Space()+
			styles.StatusStyle(row.status).Background(bg.bg).Render(status))
	}
	return m.renderTitledBox(title, strings.Join(lines, "\n"), width, height, true)
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor = m.theme.BorderFocus
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight+2)
	lines = append(lines, top)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}

// pageLabel formats "page x/y" for list titles.
func pageLabel(page, total, pageSize int) string {
	pages := cms.Page[struct{}]{Total: total, PageSize: pageSize}.Pages()
	return fmt.Sprintf("page %d/%d", max(page, 1), pages)
}
