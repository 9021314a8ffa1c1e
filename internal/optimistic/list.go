package optimistic

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// List combines a confirmed Store with the pending mutations of one screen.
//
// Pending mutations are keyed by slot. A slot names one logical operation
// (a form submission, the edit of one entity); applying a mutation to a busy
// slot replaces the previous one. Independent slots are projected in the
// order they were first applied.
type List[T any, K comparable, U any] struct {
	store      *Store[T]
	dispatcher *Dispatcher[T, K]
	reduce     Reducer[T, U]

	mu        sync.Mutex
	pending   map[string]U
	order     []string
	listeners map[int]func([]T)
	nextID    int
}

// NewList wires store, its Dispatcher, and reduce together.
func NewList[T any, K comparable, U any](store *Store[T], keyFrom KeyFunc[T, K], reduce Reducer[T, U], logger *slog.Logger) *List[T, K, U] {
	return &List[T, K, U]{
		store:      store,
		dispatcher: NewDispatcher(store, keyFrom, logger),
		reduce:     reduce,
		pending:    make(map[string]U),
		listeners:  make(map[int]func([]T)),
	}
}

// Store returns the confirmed state behind the list.
func (l *List[T, K, U]) Store() *Store[T] {
	return l.store
}

// Confirmed returns the confirmed array without any optimistic layer.
func (l *List[T, K, U]) Confirmed() []T {
	return l.store.Get()
}

// View returns the optimistic view: every pending mutation reduced over the
// confirmed array.
func (l *List[T, K, U]) View() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked()
}

// Apply makes mutation the pending mutation of slot.
func (l *List[T, K, U]) Apply(slot string, mutation U) {
	l.mu.Lock()
	if _, ok := l.pending[slot]; !ok {
		l.order = append(l.order, slot)
	}
	l.pending[slot] = mutation
	view, listeners := l.snapshotLocked()
	l.mu.Unlock()
	notify(listeners, view)
}

// Pending reports whether slot has an unresolved mutation.
func (l *List[T, K, U]) Pending(slot string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.pending[slot]
	return ok
}

// PendingCount returns the number of unresolved slots.
func (l *List[T, K, U]) PendingCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Resolve clears slot and applies cmd to the confirmed state as one step, so
// no View observes the optimistic entry together with its replacement.
func (l *List[T, K, U]) Resolve(slot string, cmd Command[T]) {
	l.mu.Lock()
	l.clearLocked(slot)
	l.dispatcher.Dispatch(cmd)
	view, listeners := l.snapshotLocked()
	l.mu.Unlock()
	notify(listeners, view)
}

// Discard drops the pending mutation of slot and rolls the view back to the
// confirmed array.
func (l *List[T, K, U]) Discard(slot string) {
	l.Resolve(slot, Rollback[T]{})
}

// Mutate runs the full lifecycle of one optimistic mutation: the mutation is
// visible while run executes, then either the returned command is applied or,
// when run fails, the projection is discarded and the error returned.
func (l *List[T, K, U]) Mutate(ctx context.Context, slot string, mutation U, run func(context.Context) (Command[T], error)) error {
	l.Apply(slot, mutation)
	cmd, err := run(ctx)
	if err != nil {
		l.Discard(slot)
		return err
	}
	l.Resolve(slot, cmd)
	return nil
}

// Subscribe registers fn to receive the view after every Apply and Resolve.
func (l *List[T, K, U]) Subscribe(fn func([]T)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.listeners, id)
	}
}

func (l *List[T, K, U]) viewLocked() []T {
	view := l.store.Get()
	for _, slot := range l.order {
		mutation := l.pending[slot]
		view = Project(view, &mutation, l.reduce)
	}
	return view
}

func (l *List[T, K, U]) clearLocked(slot string) {
	if _, ok := l.pending[slot]; !ok {
		return
	}
	delete(l.pending, slot)
	if idx := slices.Index(l.order, slot); idx >= 0 {
		l.order = slices.Delete(l.order, idx, idx+1)
	}
}

func (l *List[T, K, U]) snapshotLocked() ([]T, []func([]T)) {
	if len(l.listeners) == 0 {
		return nil, nil
	}
	listeners := make([]func([]T), 0, len(l.listeners))
	for _, fn := range l.listeners {
		listeners = append(listeners, fn)
	}
	return l.viewLocked(), listeners
}

func notify[T any](listeners []func([]T), view []T) {
	for _, fn := range listeners {
		fn(clone(view))
	}
}

var lastTempID atomic.Int64

// TempID returns a unique negative identifier for a provisional entity.
func TempID() int64 {
	for {
		prev := lastTempID.Load()
		next := -time.Now().UnixNano()
		if next >= prev {
			next = prev - 1
		}
		if lastTempID.CompareAndSwap(prev, next) {
			return next
		}
	}
}
