package admin

import (
	"fmt"

	"github.com/five82/quill/internal/optimistic"
)

// Kind is the intent of a pending mutation.
type Kind int

const (
	Create Kind = iota
	Edit
	Delete
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Record is an entity managed by an admin screen.
type Record[T any] interface {
	optimistic.Identified[int64]
	AsPending() T
	AsDeleting() T
}

// Mutation describes one in-flight change. For Create, Entity is the
// provisional entity and should carry an optimistic.TempID.
type Mutation[T Record[T]] struct {
	Kind   Kind
	Entity T
}

// Reduce is the optimistic projection shared by all admin screens:
//   - Create prepends the provisional entity flagged as loading.
//   - Edit replaces the entity with the same id, flagged as loading.
//   - Delete keeps the row but flags it as deleting, so a failed delete does
//     not make the row flicker out and back in.
func Reduce[T Record[T]](prev []T, m Mutation[T]) []T {
	switch m.Kind {
	case Create:
		next := make([]T, 0, len(prev)+1)
		next = append(next, m.Entity.AsPending())
		return append(next, prev...)
	case Edit:
		return replaceByID(prev, m.Entity.EntityID(), m.Entity.AsPending())
	case Delete:
		for _, existing := range prev {
			if existing.EntityID() == m.Entity.EntityID() {
				return replaceByID(prev, existing.EntityID(), existing.AsDeleting())
			}
		}
		return prev
	default:
		return prev
	}
}

// replaceByID returns prev itself when id is not listed.
func replaceByID[T Record[T]](prev []T, id int64, next T) []T {
	out := make([]T, len(prev))
	copy(out, prev)
	for i, existing := range out {
		if existing.EntityID() == id {
			out[i] = next
			return out
		}
	}
	return prev
}

// SlotFor names the pending-mutation slot of m within the collection name.
// Creates share one slot per collection; edits and deletes get one slot per
// entity.
func SlotFor[T Record[T]](name string, m Mutation[T]) string {
	if m.Kind == Create {
		return name + ":new"
	}
	return fmt.Sprintf("%s:%d", name, m.Entity.EntityID())
}
