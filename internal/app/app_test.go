package app

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/logging"
	"github.com/five82/quill/internal/optimistic"
	"github.com/five82/quill/internal/state"
)

type fakePages struct {
	articlesErr error
	albumsErr   error
	queries     []cms.PageQuery
}

func (f *fakePages) ListArticles(_ context.Context, q cms.PageQuery) (cms.Page[cms.Article], error) {
	f.queries = append(f.queries, q)
	if f.articlesErr != nil {
		return cms.Page[cms.Article]{}, f.articlesErr
	}
	return cms.Page[cms.Article]{Items: []cms.Article{{ID: 1}, {ID: 2}}, Total: 12, Page: 1, PageSize: q.PageSize}, nil
}

func (f *fakePages) ListAlbums(_ context.Context, q cms.PageQuery) (cms.Page[cms.Album], error) {
	f.queries = append(f.queries, q)
	if f.albumsErr != nil {
		return cms.Page[cms.Album]{}, f.albumsErr
	}
	return cms.Page[cms.Album]{Items: []cms.Album{{ID: 7}}}, nil
}

func TestBootstrap_FillsStoreAndAlbums(t *testing.T) {
	store := &state.Store{}
	s := newScreens(store, logging.Nop())
	backend := &fakePages{}

	if err := bootstrap(context.Background(), backend, store, s.albums, 2); err != nil {
		t.Fatalf("bootstrap returned error: %v", err)
	}

	if got := s.articles.View(); len(got) != 2 || got[0].ID != 1 {
		t.Fatalf("articles view = %#v, want ids 1,2", got)
	}
	if got := store.Snapshot().Articles.Total; got != 12 {
		t.Fatalf("Total = %d, want 12", got)
	}
	if got := s.albums.View(); len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("albums view = %#v, want id 7", got)
	}
	for _, q := range backend.queries {
		if q.Page != 1 || q.PageSize != 2 {
			t.Fatalf("query = %+v, want page 1 size 2", q)
		}
	}
}

func TestBootstrap_WrapsErrors(t *testing.T) {
	store := &state.Store{}
	s := newScreens(store, logging.Nop())
	errDown := errors.New("down")

	err := bootstrap(context.Background(), &fakePages{albumsErr: errDown}, store, s.albums, 20)
	if !errors.Is(err, errDown) {
		t.Fatalf("bootstrap error = %v, want wrapped down", err)
	}
	if len(s.articles.View()) != 2 {
		t.Fatalf("articles should be kept when albums fail")
	}
}

func TestNewScreens_Ownership(t *testing.T) {
	s := newScreens(&state.Store{}, nil)
	if s.articles.Ownership() != optimistic.Delegated {
		t.Fatalf("articles ownership = %v, want delegated", s.articles.Ownership())
	}
	if s.albums.Ownership() != optimistic.Owned || s.photos.Ownership() != optimistic.Owned {
		t.Fatalf("albums/photos should own their rows")
	}
}

func TestUserAgent(t *testing.T) {
	if got := userAgent(" 1.2.0 "); got != "quill/1.2.0" {
		t.Fatalf("userAgent = %q, want quill/1.2.0", got)
	}
	if got := userAgent(""); got != "" {
		t.Fatalf("empty version should keep the client default, got %q", got)
	}
}
