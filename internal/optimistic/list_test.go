package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type change struct {
	kind string
	item item
}

func reduceItems(prev []item, c change) []item {
	switch c.kind {
	case "create":
		c.item.Loading = true
		return append([]item{c.item}, prev...)
	case "edit":
		c.item.Loading = true
		return UpdateArray(prev, byID, c.item)
	default:
		return prev
	}
}

func newTestList(initial []item) *List[item, int, change] {
	return NewList(NewOwnedStore(initial), byID, reduceItems, nil)
}

func TestProject_NilMutationIsIdentity(t *testing.T) {
	confirmed := []item{{ID: 1}}

	got := Project[item, change](confirmed, nil, reduceItems)

	require.Same(t, &confirmed[0], &got[0])
}

func TestProject_AppliesReducer(t *testing.T) {
	c := change{kind: "create", item: item{ID: -1, Name: "p"}}

	got := Project([]item{{ID: 1}}, &c, reduceItems)

	require.Equal(t, []item{{ID: -1, Name: "p", Loading: true}, {ID: 1}}, got)
}

func TestList_OptimisticVisibilityWindow(t *testing.T) {
	l := newTestList([]item{{ID: 1, Name: "A"}})
	provisional := item{ID: -5, Name: "P"}
	server := item{ID: 9, Name: "ServerA"}

	var frames [][]item
	l.Subscribe(func(v []item) { frames = append(frames, v) })

	l.Apply("create", change{kind: "create", item: provisional})
	require.Equal(t, []item{{ID: -5, Name: "P", Loading: true}, {ID: 1, Name: "A"}}, l.View())
	require.True(t, l.Pending("create"))

	l.Resolve("create", Update[item]{Entity: server})
	require.Equal(t, []item{server, {ID: 1, Name: "A"}}, l.View())
	require.False(t, l.Pending("create"))

	for _, frame := range frames {
		hasP, hasServer := false, false
		for _, it := range frame {
			hasP = hasP || it.ID == provisional.ID
			hasServer = hasServer || it.ID == server.ID
		}
		require.False(t, hasP && hasServer, "frame %v shows provisional and confirmed together", frame)
	}
	require.Len(t, frames, 2)
}

func TestList_FailureRevertsExactly(t *testing.T) {
	original := []item{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	l := newTestList(original)

	errRejected := errors.New("rejected")
	err := l.Mutate(context.Background(), "item:1", change{kind: "edit", item: item{ID: 1, Name: "A'"}},
		func(context.Context) (Command[item], error) {
			require.Equal(t, []item{{ID: 1, Name: "A'", Loading: true}, {ID: 2, Name: "B"}}, l.View())
			return nil, errRejected
		})

	require.ErrorIs(t, err, errRejected)
	got := l.View()
	require.Equal(t, original, got)
	require.NotSame(t, &original[0], &got[0])
	require.Zero(t, l.PendingCount())
}

func TestList_MutateSuccess(t *testing.T) {
	l := newTestList([]item{{ID: 1, Name: "A"}})

	err := l.Mutate(context.Background(), "item:1", change{kind: "edit", item: item{ID: 1, Name: "A2"}},
		func(context.Context) (Command[item], error) {
			return Update[item]{Entity: item{ID: 1, Name: "A2 (saved)"}}, nil
		})

	require.NoError(t, err)
	require.Equal(t, []item{{ID: 1, Name: "A2 (saved)"}}, l.View())
	require.Equal(t, l.Confirmed(), l.View())
}

func TestList_RollbackIdempotent(t *testing.T) {
	l := newTestList([]item{{ID: 1}, {ID: 2}})
	l.Apply("item:2", change{kind: "edit", item: item{ID: 2, Name: "x"}})

	l.Discard("item:2")
	once := l.View()
	l.Discard("item:2")

	require.Equal(t, once, l.View())
	require.Equal(t, []item{{ID: 1}, {ID: 2}}, once)
}

func TestList_NewMutationSupersedesSameSlot(t *testing.T) {
	l := newTestList([]item{{ID: 1}})

	l.Apply("create", change{kind: "create", item: item{ID: -1, Name: "first"}})
	l.Apply("create", change{kind: "create", item: item{ID: -2, Name: "second"}})

	require.Equal(t, 1, l.PendingCount())
	require.Equal(t, []item{{ID: -2, Name: "second", Loading: true}, {ID: 1}}, l.View())
}

func TestList_IndependentSlotsDoNotInterfere(t *testing.T) {
	l := newTestList([]item{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})

	l.Apply("item:1", change{kind: "edit", item: item{ID: 1, Name: "A'"}})
	l.Apply("item:2", change{kind: "edit", item: item{ID: 2, Name: "B'"}})
	require.Equal(t, []item{{ID: 1, Name: "A'", Loading: true}, {ID: 2, Name: "B'", Loading: true}}, l.View())

	l.Discard("item:2")
	require.Equal(t, []item{{ID: 1, Name: "A'", Loading: true}, {ID: 2, Name: "B"}}, l.View())

	l.Resolve("item:1", Update[item]{Entity: item{ID: 1, Name: "A-saved"}})
	require.Equal(t, []item{{ID: 1, Name: "A-saved"}, {ID: 2, Name: "B"}}, l.View())
}

func TestList_ResolveAfterCloseIsBenign(t *testing.T) {
	l := newTestList([]item{{ID: 1}})
	l.Apply("create", change{kind: "create", item: item{ID: -1}})

	l.Store().Close()
	require.NotPanics(t, func() { l.Resolve("create", Update[item]{Entity: item{ID: 2}}) })

	require.Equal(t, []item{{ID: 1}}, l.View())
}

func TestTempID_UniqueAndNegative(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := TempID()
		require.Negative(t, id)
		require.False(t, seen[id], "duplicate temp id %d", id)
		seen[id] = true
	}
}
