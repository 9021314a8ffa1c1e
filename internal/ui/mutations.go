package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/quill/internal/admin"
	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/optimistic"
)

var (
	errNoBackend   = errors.New("no CMS backend configured")
	errProvisional = errors.New("still saving; try again once it is confirmed")
	errNoAlbum     = errors.New("open an album first")
	errEmptyReply  = errors.New("empty response from CMS")
	errNoProfile   = errors.New("profile not loaded yet; press r to refetch")
)

// mutationDoneMsg is sent when the request behind a mutation returns.
// resolve settles the optimistic row and must run on the UI goroutine.
type mutationDoneMsg struct {
	label   string
	err     error
	resolve func()
}

// startMutation shows mut optimistically and returns a command that runs
// the request. The returned command never touches the collection itself.
func startMutation[T admin.Record[T]](
	ctx context.Context,
	c *admin.Collection[T],
	mut admin.Mutation[T],
	label string,
	run func(context.Context) (T, error),
) (tea.Cmd, error) {
	slot, err := c.Begin(mut)
	if err != nil {
		return nil, err
	}
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, MutationTimeout)
		defer cancel()
		entity, err := run(reqCtx)
		return mutationDoneMsg{
			label: label,
			err:   err,
			resolve: func() {
				c.Resolve(slot, mut, admin.Outcome[T]{Entity: entity, Err: err})
			},
		}
	}, nil
}

// deref turns a (*T, error) API reply into (T, error).
func deref[T any](v *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, errEmptyReply
	}
	return *v, nil
}

func findByID[T optimistic.Identified[int64]](items []T, id int64) (T, bool) {
	for _, item := range items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// submitEdit starts the create or edit described by an editor submit.
func (m *Model) submitEdit(msg editorSubmitMsg) tea.Cmd {
	var (
		cmd tea.Cmd
		err error
	)
	switch msg.target.view {
	case ViewArticles:
		cmd, err = m.saveArticle(msg.target, articleInput(msg.values))
	case ViewAlbums:
		cmd, err = m.saveAlbum(msg.target, albumInput(msg.values))
	case ViewPhotos:
		cmd, err = m.savePhoto(msg.target, photoInput(msg.values))
	case ViewStats:
		cmd, err = m.saveProfile(profileInput(msg.values))
	default:
		err = fmt.Errorf("nothing to edit in %s", msg.target.view)
	}
	if err != nil {
		m.setError(msg.target.String(), err)
		return nil
	}
	m.setInfo(titleCase(msg.target.String()) + "…")
	return cmd
}

// submitDelete starts the delete confirmed for target.
func (m *Model) submitDelete(target editTarget) tea.Cmd {
	target.kind = admin.Delete
	var (
		cmd tea.Cmd
		err error
	)
	switch target.view {
	case ViewArticles:
		cmd, err = m.deleteArticle(target.id)
	case ViewAlbums:
		cmd, err = m.deleteAlbum(target.id)
	case ViewPhotos:
		cmd, err = m.deletePhoto(target.id)
	default:
		err = fmt.Errorf("nothing to delete in %s", target.view)
	}
	if err != nil {
		m.setError(target.String(), err)
		return nil
	}
	return cmd
}

// togglePublish flips the published flag of the selected article.
func (m *Model) togglePublish(id int64) tea.Cmd {
	if m.articles == nil {
		m.setError("publish", errNoBackend)
		return nil
	}
	row, ok := findByID(m.articles.View(), id)
	if !ok {
		return nil
	}
	target := editTarget{view: ViewArticles, kind: admin.Edit, id: id}
	cmd, err := m.saveArticle(target, cms.ArticleInput{Published: cms.Bool(!row.Published)})
	if err != nil {
		m.setError("publish article", err)
		return nil
	}
	return cmd
}

func (m *Model) saveArticle(target editTarget, input cms.ArticleInput) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil || m.articles == nil {
		return nil, errNoBackend
	}
	label := target.String()
	if target.kind == admin.Create {
		entity := input.Apply(cms.Article{ID: optimistic.TempID()})
		mut := admin.Mutation[cms.Article]{Kind: admin.Create, Entity: entity}
		return startMutation(m.ctx, m.articles, mut, label, func(ctx context.Context) (cms.Article, error) {
			return deref(backend.CreateArticle(ctx, input))
		})
	}

	row, err := editableRow(m.articles.View(), target)
	if err != nil {
		return nil, err
	}
	mut := admin.Mutation[cms.Article]{Kind: admin.Edit, Entity: input.Apply(row)}
	return startMutation(m.ctx, m.articles, mut, label, func(ctx context.Context) (cms.Article, error) {
		return deref(backend.UpdateArticle(ctx, row.ID, input))
	})
}

func (m *Model) saveAlbum(target editTarget, input cms.AlbumInput) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil || m.albums == nil {
		return nil, errNoBackend
	}
	label := target.String()
	if target.kind == admin.Create {
		entity := input.Apply(cms.Album{ID: optimistic.TempID()})
		mut := admin.Mutation[cms.Album]{Kind: admin.Create, Entity: entity}
		return startMutation(m.ctx, m.albums, mut, label, func(ctx context.Context) (cms.Album, error) {
			return deref(backend.CreateAlbum(ctx, input))
		})
	}

	row, err := editableRow(m.albums.View(), target)
	if err != nil {
		return nil, err
	}
	mut := admin.Mutation[cms.Album]{Kind: admin.Edit, Entity: input.Apply(row)}
	return startMutation(m.ctx, m.albums, mut, label, func(ctx context.Context) (cms.Album, error) {
		return deref(backend.UpdateAlbum(ctx, row.ID, input))
	})
}

func (m *Model) savePhoto(target editTarget, input cms.PhotoInput) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil || m.photos == nil {
		return nil, errNoBackend
	}
	label := target.String()
	if target.kind == admin.Create {
		albumID := m.photoAlbum.ID
		if albumID <= 0 {
			return nil, errNoAlbum
		}
		entity := input.Apply(cms.Photo{ID: optimistic.TempID(), AlbumID: albumID})
		mut := admin.Mutation[cms.Photo]{Kind: admin.Create, Entity: entity}
		return startMutation(m.ctx, m.photos, mut, label, func(ctx context.Context) (cms.Photo, error) {
			return deref(backend.CreatePhoto(ctx, albumID, input))
		})
	}

	row, err := editableRow(m.photos.View(), target)
	if err != nil {
		return nil, err
	}
	mut := admin.Mutation[cms.Photo]{Kind: admin.Edit, Entity: input.Apply(row)}
	return startMutation(m.ctx, m.photos, mut, label, func(ctx context.Context) (cms.Photo, error) {
		return deref(backend.UpdatePhoto(ctx, row.ID, input))
	})
}

func (m *Model) deleteArticle(id int64) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil || m.articles == nil {
		return nil, errNoBackend
	}
	target := editTarget{view: ViewArticles, kind: admin.Delete, id: id}
	row, err := editableRow(m.articles.View(), target)
	if err != nil {
		return nil, err
	}
	mut := admin.Mutation[cms.Article]{Kind: admin.Delete, Entity: row}
	return startMutation(m.ctx, m.articles, mut, target.String(), func(ctx context.Context) (cms.Article, error) {
		return row, ignoreNotFound(backend.DeleteArticle(ctx, row.ID))
	})
}

func (m *Model) deleteAlbum(id int64) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil || m.albums == nil {
		return nil, errNoBackend
	}
	target := editTarget{view: ViewAlbums, kind: admin.Delete, id: id}
	row, err := editableRow(m.albums.View(), target)
	if err != nil {
		return nil, err
	}
	mut := admin.Mutation[cms.Album]{Kind: admin.Delete, Entity: row}
	return startMutation(m.ctx, m.albums, mut, target.String(), func(ctx context.Context) (cms.Album, error) {
		return row, ignoreNotFound(backend.DeleteAlbum(ctx, row.ID))
	})
}

func (m *Model) deletePhoto(id int64) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil || m.photos == nil {
		return nil, errNoBackend
	}
	target := editTarget{view: ViewPhotos, kind: admin.Delete, id: id}
	row, err := editableRow(m.photos.View(), target)
	if err != nil {
		return nil, err
	}
	mut := admin.Mutation[cms.Photo]{Kind: admin.Delete, Entity: row}
	return startMutation(m.ctx, m.photos, mut, target.String(), func(ctx context.Context) (cms.Photo, error) {
		return row, ignoreNotFound(backend.DeletePhoto(ctx, row.ID))
	})
}

// ignoreNotFound treats a 404 on delete as success: the row is already gone.
func ignoreNotFound(err error) error {
	if cms.IsNotFound(err) {
		return nil
	}
	return err
}

// profileSavedMsg is sent when a profile update returns.
type profileSavedMsg struct {
	profile *cms.Profile
	err     error
}

// saveProfile sends a profile update. The profile is a single record shown
// only on the stats screen, so it is replaced on reply instead of being
// shown optimistically.
func (m *Model) saveProfile(input cms.ProfileInput) (tea.Cmd, error) {
	backend := m.backend
	if backend == nil {
		return nil, errNoBackend
	}
	ctx := m.ctx
	return func() tea.Msg {
		reqCtx, cancel := context.WithTimeout(ctx, MutationTimeout)
		defer cancel()
		profile, err := backend.UpdateProfile(reqCtx, input)
		if err == nil && profile == nil {
			err = errEmptyReply
		}
		return profileSavedMsg{profile: profile, err: err}
	}, nil
}

func (m Model) handleProfileSaved(msg profileSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("profile update failed", slog.Any("error", msg.err))
		m.setError("edit profile", msg.err)
		return m, nil
	}
	if m.store != nil {
		m.store.Update(nil, msg.profile, nil)
		m.snapshot = m.store.Snapshot()
	}
	m.setInfo(titleCase("edit profile") + ": done")
	return m, nil
}

// editableRow returns the listed row for target. Provisional rows (negative
// ids) have no server identity yet and cannot be edited or deleted.
func editableRow[T optimistic.Identified[int64]](rows []T, target editTarget) (T, error) {
	var zero T
	if target.id < 0 {
		return zero, errProvisional
	}
	row, ok := findByID(rows, target.id)
	if !ok {
		return zero, fmt.Errorf("%s %d is no longer listed", target.noun(), target.id)
	}
	return row, nil
}

// handleMutationDone settles a finished mutation and reports it.
func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	albumsBefore := m.confirmedAlbums()
	if msg.resolve != nil {
		msg.resolve()
	}
	// Album creates and deletes move the page count before the next refetch.
	if m.albums != nil {
		m.albumTotal = max(m.albumTotal+m.confirmedAlbums()-albumsBefore, m.confirmedAlbums())
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	m.clampSelection()

	if msg.err != nil {
		m.logger.Warn("mutation failed", slog.String("action", msg.label), slog.Any("error", msg.err))
		m.setError(msg.label, msg.err)
		return m, nil
	}
	m.setInfo(titleCase(msg.label) + ": done")
	return m, m.statsCmd()
}

func (m Model) confirmedAlbums() int {
	if m.albums == nil {
		return 0
	}
	return len(m.albums.Confirmed())
}
