package ui

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/five82/quill/internal/admin"
	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/optimistic"
	"github.com/five82/quill/internal/state"
)

type fakeBackend struct {
	mu        sync.Mutex
	nextID    int64
	createErr error
	updateErr error
	deleteErr error
	articles  []cms.Article
	albums    []cms.Album
	photos    map[int64][]cms.Photo
	profile   cms.Profile
	deleted   []int64
	updated   []int64
	lastInput cms.ArticleInput
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:   100,
		articles: []cms.Article{{ID: 1, Title: "Server"}},
		photos:   make(map[int64][]cms.Photo),
		profile:  cms.Profile{Name: "Ada"},
	}
}

func (f *fakeBackend) id() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID
}

func (f *fakeBackend) ListArticles(context.Context, cms.PageQuery) (cms.Page[cms.Article], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := append([]cms.Article(nil), f.articles...)
	return cms.Page[cms.Article]{Items: items, Total: len(items), Page: 1, PageSize: 20}, nil
}

func (f *fakeBackend) CreateArticle(_ context.Context, in cms.ArticleInput) (*cms.Article, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a := in.Apply(cms.Article{ID: f.id()})
	return &a, nil
}

// UpdateArticle patches the stored article the way the server does, so a
// field left out of the input keeps its old value.
func (f *fakeBackend) UpdateArticle(_ context.Context, id int64, in cms.ArticleInput) (*cms.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	f.lastInput = in
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, a := range f.articles {
		if a.ID == id {
			f.articles[i] = in.Apply(a)
			out := f.articles[i]
			return &out, nil
		}
	}
	a := in.Apply(cms.Article{ID: id})
	return &a, nil
}

func (f *fakeBackend) DeleteArticle(_ context.Context, id int64) error {
	return f.recordDelete(id)
}

func (f *fakeBackend) ListAlbums(context.Context, cms.PageQuery) (cms.Page[cms.Album], error) {
	return cms.Page[cms.Album]{Items: f.albums, Total: len(f.albums), Page: 1}, nil
}

func (f *fakeBackend) CreateAlbum(_ context.Context, in cms.AlbumInput) (*cms.Album, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a := in.Apply(cms.Album{ID: f.id()})
	return &a, nil
}

func (f *fakeBackend) UpdateAlbum(_ context.Context, id int64, in cms.AlbumInput) (*cms.Album, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, id)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i, a := range f.albums {
		if a.ID == id {
			f.albums[i] = in.Apply(a)
			out := f.albums[i]
			return &out, nil
		}
	}
	a := in.Apply(cms.Album{ID: id})
	return &a, nil
}

func (f *fakeBackend) DeleteAlbum(_ context.Context, id int64) error {
	return f.recordDelete(id)
}

func (f *fakeBackend) ListPhotos(_ context.Context, albumID int64, _ cms.PageQuery) (cms.Page[cms.Photo], error) {
	items := f.photos[albumID]
	return cms.Page[cms.Photo]{Items: items, Total: len(items), Page: 1}, nil
}

func (f *fakeBackend) CreatePhoto(_ context.Context, albumID int64, in cms.PhotoInput) (*cms.Photo, error) {
	p := in.Apply(cms.Photo{ID: f.id(), AlbumID: albumID})
	return &p, nil
}

func (f *fakeBackend) UpdatePhoto(_ context.Context, id int64, in cms.PhotoInput) (*cms.Photo, error) {
	p := in.Apply(cms.Photo{ID: id})
	return &p, nil
}

func (f *fakeBackend) DeletePhoto(_ context.Context, id int64) error {
	return f.recordDelete(id)
}

func (f *fakeBackend) FetchStats(context.Context) (*cms.Stats, error) {
	return &cms.Stats{Articles: 1}, nil
}

func (f *fakeBackend) FetchProfile(context.Context) (*cms.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profile
	return &p, nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, in cms.ProfileInput) (*cms.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if in.Name != nil {
		f.profile.Name = *in.Name
	}
	if in.Bio != nil {
		f.profile.Bio = *in.Bio
	}
	if in.Website != nil {
		f.profile.Website = *in.Website
	}
	p := f.profile
	return &p, nil
}

func (f *fakeBackend) recordDelete(id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

var _ cms.Backend = (*fakeBackend)(nil)

func newTestModel(t *testing.T, backend cms.Backend) (Model, *state.Store) {
	t.Helper()
	store := &state.Store{}
	m := New(Options{
		Backend:   backend,
		Store:     store,
		Articles:  admin.NewCollection("articles", optimistic.NewDelegatedStore(store.ArticleSource()), nil),
		Albums:    admin.NewCollection("albums", optimistic.NewOwnedStore[cms.Album](nil), nil),
		Photos:    admin.NewCollection("photos", optimistic.NewOwnedStore[cms.Photo](nil), nil),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Copy:      func(string) (string, error) { return "test", nil },
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return update(t, m, msg)
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

func TestCreateArticle_ShowsProvisionalRowThenConfirms(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)

	m, _ = press(t, m, "n")
	require.IsType(t, &editorModal{}, m.modal)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Hello World")})
	m, cmd := press(t, m, "enter")
	require.Nil(t, m.modal)

	// editorSubmitMsg starts the mutation.
	m, cmd = run(t, m, cmd)
	rows := m.rows(ViewArticles)
	require.Len(t, rows, 1)
	require.Less(t, rows[0].id, int64(0))
	require.True(t, rows[0].loading)
	require.Equal(t, "Hello World", rows[0].title)
	require.Empty(t, store.Articles(), "confirmed articles must not change before the server replies")

	m, _ = run(t, m, cmd)
	rows = m.rows(ViewArticles)
	require.Len(t, rows, 1)
	require.Equal(t, int64(101), rows[0].id)
	require.False(t, rows[0].loading)

	confirmed := store.Articles()
	require.Len(t, confirmed, 1)
	require.Equal(t, "hello-world", confirmed[0].Slug)
	require.False(t, m.status.isErr)
	require.Contains(t, m.status.text, "done")
}

func TestCreateArticle_FailureRollsBack(t *testing.T) {
	backend := newFakeBackend()
	backend.createErr = errors.New("slug must be unique")
	m, store := newTestModel(t, backend)

	m, cmd := update(t, m, editorSubmitMsg{
		target: editTarget{view: ViewArticles, kind: admin.Create},
		values: map[string]string{"title": "Dup", "slug": "dup"},
	})
	require.Len(t, m.rows(ViewArticles), 1)

	m, _ = run(t, m, cmd)
	require.Empty(t, m.rows(ViewArticles))
	require.Empty(t, store.Articles())
	require.True(t, m.status.isErr)
	require.Contains(t, m.status.text, "create article")
	require.Contains(t, m.status.text, "slug must be unique")
}

func TestCreate_SecondCreateWhilePendingIsRefused(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	submit := editorSubmitMsg{
		target: editTarget{view: ViewAlbums, kind: admin.Create},
		values: map[string]string{"title": "Trips"},
	}

	m, first := update(t, m, submit)
	require.NotNil(t, first)
	m, second := update(t, m, submit)
	require.Nil(t, second)
	require.True(t, m.status.isErr)
	require.Contains(t, m.status.text, admin.ErrBusy.Error())
	require.Len(t, m.rows(ViewAlbums), 1)
}

func TestRefetch_RefusedWhilePending(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m, _ = update(t, m, editorSubmitMsg{
		target: editTarget{view: ViewArticles, kind: admin.Create},
		values: map[string]string{"title": "Draft", "slug": "draft"},
	})

	m, cmd := press(t, m, "r")
	require.Nil(t, cmd)
	require.True(t, m.status.isErr)
	require.Contains(t, m.status.text, errPending.Error())

	// A page that arrives anyway is dropped rather than clobbering the row.
	m, _ = update(t, m, articlesLoadedMsg{page: cms.Page[cms.Article]{Items: []cms.Article{{ID: 1}}, Total: 1}})
	rows := m.rows(ViewArticles)
	require.Len(t, rows, 1)
	require.Equal(t, "Draft", rows[0].title)
}

func TestRefetch_LoadsArticles(t *testing.T) {
	m, store := newTestModel(t, newFakeBackend())

	m, cmd := press(t, m, "r")
	require.True(t, m.loading[ViewArticles])
	m, _ = run(t, m, cmd)
	require.False(t, m.loading[ViewArticles])
	require.Len(t, store.Articles(), 1)
	require.Equal(t, "Server", m.rows(ViewArticles)[0].title)
	require.True(t, m.snapshot.HasArticles)
}

func loadAlbums(t *testing.T, m Model, albums ...cms.Album) Model {
	t.Helper()
	m, _ = update(t, m, albumsLoadedMsg{page: cms.Page[cms.Album]{Items: albums, Total: len(albums), Page: 1}})
	return m
}

func TestDeleteAlbum_ConfirmFlagThenRemove(t *testing.T) {
	backend := newFakeBackend()
	m, _ := newTestModel(t, backend)
	m, _ = press(t, m, "2")
	require.Equal(t, ViewAlbums, m.currentView)
	m = loadAlbums(t, m, cms.Album{ID: 1, Title: "Trips"}, cms.Album{ID: 2, Title: "Food"})

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "d")
	require.IsType(t, confirmModal{}, m.modal)

	m, cmd := press(t, m, "enter")
	require.Nil(t, m.modal)
	m, cmd = run(t, m, cmd)

	rows := m.rows(ViewAlbums)
	require.Len(t, rows, 2)
	require.True(t, rows[1].deleting)
	require.Equal(t, "deleting", rows[1].status)

	m, _ = run(t, m, cmd)
	rows = m.rows(ViewAlbums)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0].id)
	require.Equal(t, []int64{2}, backend.deleted)
	require.Equal(t, 0, m.selected[ViewAlbums])
}

func TestDeleteAlbum_CancelAndFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.deleteErr = errors.New("album not empty")
	m, _ := newTestModel(t, backend)
	m.currentView = ViewAlbums
	m = loadAlbums(t, m, cms.Album{ID: 1, Title: "Trips"})

	m, _ = press(t, m, "d")
	m, cmd := press(t, m, "esc")
	require.Nil(t, m.modal)
	require.Nil(t, cmd)

	m, cmd = update(t, m, confirmDeleteMsg{target: editTarget{view: ViewAlbums, kind: admin.Delete, id: 1}})
	m, _ = run(t, m, cmd)
	rows := m.rows(ViewAlbums)
	require.Len(t, rows, 1)
	require.False(t, rows[0].deleting)
	require.True(t, m.status.isErr)
	require.Contains(t, m.status.text, "album not empty")
}

func TestEdit_ProvisionalRowIsRefused(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m, _ = update(t, m, editorSubmitMsg{
		target: editTarget{view: ViewArticles, kind: admin.Create},
		values: map[string]string{"title": "Pending", "slug": "pending"},
	})

	m, _ = press(t, m, "e")
	require.Nil(t, m.modal)
	require.Contains(t, m.status.text, errProvisional.Error())

	m, _ = press(t, m, "d")
	require.Nil(t, m.modal)
}

func TestPublish_TogglesSelectedArticle(t *testing.T) {
	backend := newFakeBackend()
	m, store := newTestModel(t, backend)
	m, cmd := press(t, m, "r")
	m, _ = run(t, m, cmd)

	m, cmd = press(t, m, "p")
	require.True(t, m.rows(ViewArticles)[0].loading)
	m, _ = run(t, m, cmd)

	require.Equal(t, []int64{1}, backend.updated)
	require.True(t, store.Articles()[0].Published)
	require.Equal(t, "published", m.rows(ViewArticles)[0].status)
}

func TestOpenAlbum_LoadsPhotosAndCopiesURL(t *testing.T) {
	backend := newFakeBackend()
	backend.photos[7] = []cms.Photo{{ID: 70, AlbumID: 7, URL: "https://img.example.com/a.jpg"}}
	m, _ := newTestModel(t, backend)
	m.currentView = ViewAlbums
	m = loadAlbums(t, m, cms.Album{ID: 7, Title: "Coast"})

	m, cmd := press(t, m, "enter")
	require.Equal(t, ViewPhotos, m.currentView)
	require.Equal(t, int64(7), m.photoAlbum.ID)
	m, _ = run(t, m, cmd)

	rows := m.rows(ViewPhotos)
	require.Len(t, rows, 1)
	require.Equal(t, "https://img.example.com/a.jpg", rows[0].title)

	m, cmd = press(t, m, "y")
	m, _ = run(t, m, cmd)
	require.Equal(t, "Copied photo URL via test", m.status.text)

	m, _ = press(t, m, "esc")
	require.Equal(t, ViewAlbums, m.currentView)
}

func TestPhotosLoaded_IgnoresStaleAlbum(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m.photoAlbum = cms.Album{ID: 2}

	m, _ = update(t, m, photosLoadedMsg{albumID: 1, page: cms.Page[cms.Photo]{Items: []cms.Photo{{ID: 9}}}})
	require.Empty(t, m.rows(ViewPhotos))
}

func TestNewPhoto_RequiresOpenAlbum(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m.currentView = ViewPhotos

	m, _ = press(t, m, "n")
	require.Nil(t, m.modal)
	require.Contains(t, m.status.text, errNoAlbum.Error())
}

func TestStatsLoaded_UpdatesSnapshot(t *testing.T) {
	m, store := newTestModel(t, newFakeBackend())
	m, cmd := press(t, m, "4")
	require.Equal(t, ViewStats, m.currentView)
	require.True(t, m.loading[ViewStats])

	m, _ = run(t, m, cmd)
	require.True(t, m.snapshot.HasStats)
	require.Equal(t, "Ada", store.Snapshot().Profile.Name)
	require.Contains(t, m.View(), "Ada")
}

func TestView_RendersEveryScreen(t *testing.T) {
	m, _ := newTestModel(t, newFakeBackend())
	m = loadAlbums(t, m, cms.Album{ID: 1, Title: "Trips"})

	for v := ViewArticles; v < viewCount; v++ {
		m.currentView = v
		require.NotEmpty(t, m.View(), v.String())
	}

	m.showHelp = true
	require.Contains(t, m.View(), "Keyboard Shortcuts")
	m, _ = press(t, m, "x")
	require.False(t, m.showHelp)
}

func TestParseView(t *testing.T) {
	require.Equal(t, ViewAlbums, parseView(" Albums "))
	require.Equal(t, ViewLog, parseView("log"))
	require.Equal(t, ViewArticles, parseView("nope"))
	require.Equal(t, "unknown", View(42).String())
}
