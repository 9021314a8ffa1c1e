package admin

import (
	"errors"
	"log/slog"

	"github.com/five82/quill/internal/optimistic"
)

// ErrBusy is returned when a slot already has a mutation in flight.
var ErrBusy = errors.New("admin: mutation already pending")

// Outcome is the result of the network call behind a mutation.
type Outcome[T any] struct {
	Entity T
	Err    error
}

// Collection is the optimistic list behind one admin screen.
type Collection[T Record[T]] struct {
	name   string
	list   *optimistic.List[T, int64, Mutation[T]]
	logger *slog.Logger
}

// NewCollection wraps store for the screen called name.
func NewCollection[T Record[T]](name string, store *optimistic.Store[T], logger *slog.Logger) *Collection[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("collection", name))
	return &Collection[T]{
		name:   name,
		list:   optimistic.NewList(store, optimistic.ByID[T, int64], Reduce[T], logger),
		logger: logger,
	}
}

// Name returns the collection name used in slots and logs.
func (c *Collection[T]) Name() string {
	return c.name
}

// View returns the rows to render, optimistic changes included.
func (c *Collection[T]) View() []T {
	return c.list.View()
}

// Confirmed returns the last confirmed rows.
func (c *Collection[T]) Confirmed() []T {
	return c.list.Confirmed()
}

// Ownership reports who owns the confirmed rows.
func (c *Collection[T]) Ownership() optimistic.Ownership {
	return c.list.Store().Ownership()
}

// Busy reports whether the slot for m has a mutation in flight.
func (c *Collection[T]) Busy(m Mutation[T]) bool {
	return c.list.Pending(SlotFor(c.name, m))
}

// PendingCount returns the number of mutations in flight.
func (c *Collection[T]) PendingCount() int {
	return c.list.PendingCount()
}

// Begin shows m optimistically and returns its slot. It refuses to stack a
// second mutation on a busy slot.
func (c *Collection[T]) Begin(m Mutation[T]) (string, error) {
	slot := SlotFor(c.name, m)
	if c.list.Pending(slot) {
		return "", ErrBusy
	}
	c.list.Apply(slot, m)
	c.logger.Debug("mutation started",
		slog.String("slot", slot),
		slog.String("kind", m.Kind.String()),
		slog.Int64("id", m.Entity.EntityID()))
	return slot, nil
}

// Resolve settles the mutation started by Begin. A successful create or edit
// folds the server entity into the confirmed rows, a successful delete removes
// the row, and any error rolls the view back.
func (c *Collection[T]) Resolve(slot string, m Mutation[T], out Outcome[T]) {
	if out.Err != nil {
		c.logger.Warn("mutation failed; rolled back",
			slog.String("slot", slot),
			slog.String("kind", m.Kind.String()),
			slog.Int64("id", m.Entity.EntityID()),
			slog.Any("error", out.Err))
		c.list.Discard(slot)
		return
	}

	switch m.Kind {
	case Delete:
		c.list.Resolve(slot, optimistic.Remove[T]{Entity: m.Entity})
	default:
		c.list.Resolve(slot, optimistic.Update[T]{Entity: out.Entity})
	}
	c.logger.Info("mutation confirmed",
		slog.String("slot", slot),
		slog.String("kind", m.Kind.String()),
		slog.Int64("id", out.Entity.EntityID()))
}

// Reset replaces the confirmed rows after a refetch. It returns ErrBusy while
// any mutation is in flight.
func (c *Collection[T]) Reset(items []T) error {
	if c.list.PendingCount() > 0 {
		return ErrBusy
	}
	c.list.Store().Set(func([]T) []T {
		out := make([]T, len(items))
		copy(out, items)
		return out
	})
	return nil
}
