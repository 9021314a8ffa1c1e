package optimistic

import "sync"

// Ownership records who holds the confirmed array behind a Store.
type Ownership int

const (
	// Owned stores keep the confirmed array themselves.
	Owned Ownership = iota
	// Delegated stores read and write the array through a host-provided Source.
	Delegated
)

// String implements fmt.Stringer.
func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Delegated:
		return "delegated"
	default:
		return "unknown"
	}
}

// Source lets a host own the confirmed array while a Store mediates writes.
// Value must return the host's current array; OnChange receives every array
// produced by Store.Set.
type Source[T any] struct {
	Value    func() []T
	OnChange func([]T)
}

// Store holds the last confirmed array for one screen.
//
// Writes are serialized. Subscribers are notified synchronously from Set,
// after the write is visible to Get, and must not call Set themselves.
type Store[T any] struct {
	ownership Ownership
	source    Source[T]

	writeMu sync.Mutex

	mu        sync.RWMutex
	value     []T
	version   uint64
	closed    bool
	listeners map[int]func([]T)
	nextID    int
}

// NewOwnedStore returns a Store seeded with initial that owns its array.
func NewOwnedStore[T any](initial []T) *Store[T] {
	return &Store[T]{
		ownership: Owned,
		value:     clone(initial),
		listeners: make(map[int]func([]T)),
	}
}

// NewDelegatedStore returns a Store backed by a host-owned array.
func NewDelegatedStore[T any](source Source[T]) *Store[T] {
	if source.Value == nil {
		source.Value = func() []T { return nil }
	}
	if source.OnChange == nil {
		source.OnChange = func([]T) {}
	}
	return &Store[T]{
		ownership: Delegated,
		source:    source,
		listeners: make(map[int]func([]T)),
	}
}

// Ownership reports how the Store was constructed.
func (s *Store[T]) Ownership() Ownership {
	return s.ownership
}

// Get returns a copy of the current confirmed array.
func (s *Store[T]) Get() []T {
	if s.ownership == Delegated {
		return clone(s.source.Value())
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.value)
}

// Version increases by one on every applied Set.
func (s *Store[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Set replaces the confirmed array with producer(prev). producer must return a
// new slice rather than modifying prev. Set on a closed Store does nothing.
func (s *Store[T]) Set(producer func(prev []T) []T) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return
	}

	next := producer(s.Get())
	if s.ownership == Delegated {
		s.source.OnChange(clone(next))
	}

	s.mu.Lock()
	if s.ownership == Owned {
		s.value = next
	}
	s.version++
	listeners := make([]func([]T), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(clone(next))
	}
}

// Subscribe registers fn to be called after every Set. The returned function
// removes the registration.
func (s *Store[T]) Subscribe(fn func([]T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close detaches the Store from its screen. Later Set calls are ignored and
// listeners are dropped.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = make(map[int]func([]T))
}
