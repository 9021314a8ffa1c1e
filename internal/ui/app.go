package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/admin"
	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/prefs"
	"github.com/five82/quill/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewArticles View = iota
	ViewAlbums
	ViewPhotos
	ViewStats
	ViewLog
	viewCount
)

var viewNames = [viewCount]string{"articles", "albums", "photos", "stats", "log"}

func (v View) String() string {
	if v < 0 || v >= viewCount {
		return "unknown"
	}
	return viewNames[v]
}

// parseView maps a prefs view name to a View, defaulting to articles.
func parseView(name string) View {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range viewNames {
		if n == name {
			return View(i)
		}
	}
	return ViewArticles
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Backend   cms.Backend
	Store     *state.Store
	Articles  *admin.Collection[cms.Article]
	Albums    *admin.Collection[cms.Album]
	Photos    *admin.Collection[cms.Photo]
	PageSize  int
	PollTick  time.Duration
	ThemeName string
	StartView string
	PrefsPath string
	LogPath   string
	Logger    *slog.Logger

	// Copy overrides the clipboard writer; it returns a label for the
	// method used.
	Copy func(text string) (string, error)
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	backend   cms.Backend
	store     *state.Store
	articles  *admin.Collection[cms.Article]
	albums    *admin.Collection[cms.Album]
	photos    *admin.Collection[cms.Photo]
	pageSize  int
	pollTick  time.Duration
	prefsPath string
	logPath   string
	logger    *slog.Logger
	copyText  func(string) (string, error)

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// List state
	selected    [viewCount]int
	articlePage int
	albumPage   int
	albumTotal  int
	photoAlbum  cms.Album
	loading     [viewCount]bool

	// Article preview
	preview  viewport.Model
	markdown *markdownCache

	// Log state
	logViewport viewport.Model
	logState    logState

	spinner spinner.Model
	status  statusLine
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	copyText := opts.Copy
	if copyText == nil {
		copyText = copyToClipboard
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	m := Model{
		ctx:         ctx,
		backend:     opts.Backend,
		store:       opts.Store,
		articles:    opts.Articles,
		albums:      opts.Albums,
		photos:      opts.Photos,
		pageSize:    pageSize,
		pollTick:    pollTick,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		logger:      logger.With(slog.String("component", "ui")),
		copyText:    copyText,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: parseView(opts.StartView),
		articlePage: 1,
		albumPage:   1,
		preview:     viewport.New(0, 0),
		markdown:    &markdownCache{},
		logViewport: viewport.New(0, 0),
		logState:    logState{follow: true, minLevel: "debug"},
		spinner:     spin,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	if m.albums != nil {
		m.albumTotal = len(m.albums.View())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLog {
		cmds = append(cmds, m.refreshLogs())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizePanes()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampSelection()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case profileSavedMsg:
		return m.handleProfileSaved(msg)

	case editorSubmitMsg:
		cmd := m.submitEdit(msg)
		return m, cmd

	case confirmDeleteMsg:
		cmd := m.submitDelete(msg.target)
		return m, cmd

	case articlesLoadedMsg:
		return m.handleArticlesLoaded(msg)

	case albumsLoadedMsg:
		return m.handleAlbumsLoaded(msg)

	case photosLoadedMsg:
		return m.handlePhotosLoaded(msg)

	case statsLoadedMsg:
		m.loading[ViewStats] = false
		if m.store != nil {
			m.store.Update(msg.stats, msg.profile, msg.err)
			m.snapshot = m.store.Snapshot()
		}
		if msg.err != nil {
			m.setError("refresh stats", msg.err)
		}
		return m, nil

	case logLoadedMsg:
		m.handleLogLoaded(msg)
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.setError("copy", msg.err)
		} else {
			m.setInfo("Copied " + msg.what + " via " + msg.method)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.markdown.reset()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NextView):
		return m.switchView((m.currentView + 1) % viewCount)

	case key.Matches(msg, m.keys.PrevView):
		return m.switchView((m.currentView + viewCount - 1) % viewCount)

	case key.Matches(msg, m.keys.ViewArticles):
		return m.switchView(ViewArticles)
	case key.Matches(msg, m.keys.ViewAlbums):
		return m.switchView(ViewAlbums)
	case key.Matches(msg, m.keys.ViewPhotos):
		return m.switchView(ViewPhotos)
	case key.Matches(msg, m.keys.ViewStats):
		return m.switchView(ViewStats)
	case key.Matches(msg, m.keys.ViewLog):
		return m.switchView(ViewLog)
	}

	switch m.currentView {
	case ViewLog:
		return m.handleLogKey(msg)
	case ViewStats:
		switch {
		case key.Matches(msg, m.keys.Refetch):
			cmd := m.refetch()
			return m, cmd
		case key.Matches(msg, m.keys.Edit):
			m.openProfileEditor()
		}
		return m, nil
	default:
		return m.handleListKey(msg)
	}
}

// switchView activates v and starts any load it needs.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.savePrefs()
	m.resizePanes()
	switch v {
	case ViewLog:
		return m, m.refreshLogs()
	case ViewStats:
		if !m.snapshot.HasStats {
			cmd := m.refetch()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String()}); err != nil {
		m.logger.Warn("save prefs failed", slog.Any("error", err))
	}
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewLog && m.logState.follow {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// resizePanes sizes the viewports for the current window.
func (m *Model) resizePanes() {
	contentHeight := m.contentHeight()
	_, previewWidth := m.splitWidths()
	m.preview.Width = max(previewWidth-4, 0)
	m.preview.Height = max(contentHeight-2, 0)
	m.logViewport.Width = max(m.width-4, 0)
	m.logViewport.Height = max(contentHeight-3, 0)
	m.updateLogViewport()
}

// contentHeight is the height left for the active view: header, command
// bar, and status line take one row each.
func (m Model) contentHeight() int {
	return max(m.height-3, 0)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatusLine())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewArticles:
		return m.renderArticles()
	case ViewAlbums:
		return m.renderAlbums()
	case ViewPhotos:
		return m.renderPhotos()
	case ViewStats:
		return m.renderStats()
	case ViewLog:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
