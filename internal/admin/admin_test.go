package admin

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/optimistic"
)

func albums(ids ...int64) []cms.Album {
	out := make([]cms.Album, 0, len(ids))
	for _, id := range ids {
		out = append(out, cms.Album{ID: id, Title: "album"})
	}
	return out
}

func TestReduce_CreatePrependsLoading(t *testing.T) {
	prev := albums(1)
	provisional := cms.Album{ID: -7, Title: "new"}

	got := Reduce(prev, Mutation[cms.Album]{Kind: Create, Entity: provisional})

	require.Equal(t, []cms.Album{{ID: -7, Title: "new", Loading: true}, {ID: 1, Title: "album"}}, got)
	require.Len(t, prev, 1)
}

func TestReduce_EditReplacesInPlace(t *testing.T) {
	prev := albums(1, 2, 3)

	got := Reduce(prev, Mutation[cms.Album]{Kind: Edit, Entity: cms.Album{ID: 2, Title: "renamed"}})

	require.Equal(t, "renamed", got[1].Title)
	require.True(t, got[1].Loading)
	require.Equal(t, "album", prev[1].Title)
}

func TestReduce_EditOfUnknownIDIsNoop(t *testing.T) {
	prev := albums(1)

	got := Reduce(prev, Mutation[cms.Album]{Kind: Edit, Entity: cms.Album{ID: 5}})

	require.Equal(t, prev, got)
}

func TestReduce_DeleteMarksRowInsteadOfRemoving(t *testing.T) {
	prev := albums(1, 2)

	got := Reduce(prev, Mutation[cms.Album]{Kind: Delete, Entity: cms.Album{ID: 2}})

	require.Len(t, got, 2)
	require.True(t, got[1].Deleting)
	require.Equal(t, "album", got[1].Title, "delete keeps the listed fields")
	require.False(t, prev[1].Deleting)
}

func TestSlotFor(t *testing.T) {
	require.Equal(t, "albums:new", SlotFor("albums", Mutation[cms.Album]{Kind: Create, Entity: cms.Album{ID: -3}}))
	require.Equal(t, "albums:4", SlotFor("albums", Mutation[cms.Album]{Kind: Edit, Entity: cms.Album{ID: 4}}))
	require.Equal(t, "albums:4", SlotFor("albums", Mutation[cms.Album]{Kind: Delete, Entity: cms.Album{ID: 4}}))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "create", Create.String())
	require.Equal(t, "edit", Edit.String())
	require.Equal(t, "delete", Delete.String())
	require.Equal(t, "kind(9)", Kind(9).String())
}

func newAlbumCollection(initial []cms.Album) *Collection[cms.Album] {
	return NewCollection("albums", optimistic.NewOwnedStore(initial), nil)
}

func TestCollection_CreateLifecycle(t *testing.T) {
	c := newAlbumCollection(albums(1))
	m := Mutation[cms.Album]{Kind: Create, Entity: cms.Album{ID: optimistic.TempID(), Title: "Food"}}

	slot, err := c.Begin(m)
	require.NoError(t, err)
	require.Equal(t, "albums:new", slot)
	view := c.View()
	require.Len(t, view, 2)
	require.True(t, view[0].Loading)
	require.Negative(t, view[0].ID)

	_, err = c.Begin(m)
	require.ErrorIs(t, err, ErrBusy)

	c.Resolve(slot, m, Outcome[cms.Album]{Entity: cms.Album{ID: 50, Title: "Food"}})

	require.Equal(t, []cms.Album{{ID: 50, Title: "Food"}, {ID: 1, Title: "album"}}, c.View())
	require.Zero(t, c.PendingCount())
}

func TestCollection_DeleteSuccessRemovesRow(t *testing.T) {
	c := newAlbumCollection(albums(1, 2))
	m := Mutation[cms.Album]{Kind: Delete, Entity: cms.Album{ID: 1}}

	slot, err := c.Begin(m)
	require.NoError(t, err)
	require.True(t, c.View()[0].Deleting)
	require.True(t, c.Busy(m))
	require.Equal(t, albums(1, 2), c.Confirmed())

	c.Resolve(slot, m, Outcome[cms.Album]{})

	require.False(t, c.Busy(m))
	require.Equal(t, albums(2), c.View())
	require.Equal(t, albums(2), c.Confirmed())
}

func TestCollection_FailureRollsBackAndLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewCollection("albums", optimistic.NewOwnedStore(albums(1, 2)), logger)
	errDenied := errors.New("denied")

	for _, m := range []Mutation[cms.Album]{
		{Kind: Create, Entity: cms.Album{ID: -1, Title: "x"}},
		{Kind: Edit, Entity: cms.Album{ID: 1, Title: "y"}},
		{Kind: Delete, Entity: cms.Album{ID: 2}},
	} {
		slot, err := c.Begin(m)
		require.NoError(t, err)
		c.Resolve(slot, m, Outcome[cms.Album]{Err: errDenied})
		require.Equal(t, albums(1, 2), c.View(), "after failed %s", m.Kind)
	}

	require.Contains(t, buf.String(), "mutation failed")
	require.Contains(t, buf.String(), "collection=albums")
}

func TestCollection_ResetRefusedWhilePending(t *testing.T) {
	c := newAlbumCollection(albums(1))
	_, err := c.Begin(Mutation[cms.Album]{Kind: Edit, Entity: cms.Album{ID: 1}})
	require.NoError(t, err)

	require.ErrorIs(t, c.Reset(albums(9)), ErrBusy)

	c.Resolve("albums:1", Mutation[cms.Album]{Kind: Edit, Entity: cms.Album{ID: 1}}, Outcome[cms.Album]{Err: errors.New("x")})
	require.NoError(t, c.Reset(albums(9)))
	require.Equal(t, albums(9), c.View())
}

func TestCollection_DelegatedStoreWritesToHost(t *testing.T) {
	host := []cms.Article{{ID: 1, Title: "a"}}
	store := optimistic.NewDelegatedStore(optimistic.Source[cms.Article]{
		Value:    func() []cms.Article { return host },
		OnChange: func(next []cms.Article) { host = next },
	})
	c := NewCollection("articles", store, nil)
	require.Equal(t, optimistic.Delegated, c.Ownership())

	m := Mutation[cms.Article]{Kind: Edit, Entity: cms.Article{ID: 1, Title: "b"}}
	slot, err := c.Begin(m)
	require.NoError(t, err)
	require.Equal(t, []cms.Article{{ID: 1, Title: "a"}}, host)

	c.Resolve(slot, m, Outcome[cms.Article]{Entity: cms.Article{ID: 1, Title: "b", Published: true}})
	require.Equal(t, []cms.Article{{ID: 1, Title: "b", Published: true}}, host)
}
