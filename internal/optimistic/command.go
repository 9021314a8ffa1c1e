package optimistic

import "log/slog"

// Command is the closed set of instructions accepted by a Dispatcher:
// Update, Remove, BatchUpdate, and Rollback.
type Command[T any] interface {
	isCommand()
}

// Update folds one authoritative entity into the confirmed array.
type Update[T any] struct {
	Entity T
}

// Remove drops the entity with the same key from the confirmed array.
type Remove[T any] struct {
	Entity T
}

// BatchUpdate applies Update for each entity in order.
type BatchUpdate[T any] struct {
	Entities []T
}

// Rollback discards the optimistic layer without changing confirmed content.
type Rollback[T any] struct{}

func (Update[T]) isCommand()      {}
func (Remove[T]) isCommand()      {}
func (BatchUpdate[T]) isCommand() {}
func (Rollback[T]) isCommand()    {}

// Dispatcher is the only writer of a Store. It never fails.
type Dispatcher[T any, K comparable] struct {
	store   *Store[T]
	keyFrom KeyFunc[T, K]
	logger  *slog.Logger
}

// NewDispatcher binds a Dispatcher to store. A nil logger discards output.
func NewDispatcher[T any, K comparable](store *Store[T], keyFrom KeyFunc[T, K], logger *slog.Logger) *Dispatcher[T, K] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher[T, K]{store: store, keyFrom: keyFrom, logger: logger}
}

// Dispatch applies cmd to the confirmed array.
func (d *Dispatcher[T, K]) Dispatch(cmd Command[T]) {
	switch c := cmd.(type) {
	case Update[T]:
		d.checkKeys(c.Entity)
		d.store.Set(func(prev []T) []T {
			return UpdateArray(prev, d.keyFrom, c.Entity)
		})
	case Remove[T]:
		d.checkKeys(c.Entity)
		d.store.Set(func(prev []T) []T {
			return RemoveArray(prev, d.keyFrom, c.Entity)
		})
	case BatchUpdate[T]:
		d.checkKeys(c.Entities...)
		d.store.Set(func(prev []T) []T {
			return UpdateArray(prev, d.keyFrom, c.Entities...)
		})
	case Rollback[T]:
		d.store.Set(func(prev []T) []T {
			return clone(prev)
		})
	case nil:
		d.logger.Warn("nil command dispatched")
	default:
		d.logger.Warn("unknown command dispatched", slog.Any("command", cmd))
	}
}

// Update is shorthand for Dispatch(Update[T]{Entity: entity}).
func (d *Dispatcher[T, K]) Update(entity T) {
	d.Dispatch(Update[T]{Entity: entity})
}

// Remove is shorthand for Dispatch(Remove[T]{Entity: entity}).
func (d *Dispatcher[T, K]) Remove(entity T) {
	d.Dispatch(Remove[T]{Entity: entity})
}

// BatchUpdate is shorthand for Dispatch(BatchUpdate[T]{Entities: entities}).
func (d *Dispatcher[T, K]) BatchUpdate(entities []T) {
	d.Dispatch(BatchUpdate[T]{Entities: entities})
}

// Rollback is shorthand for Dispatch(Rollback[T]{}).
func (d *Dispatcher[T, K]) Rollback() {
	d.Dispatch(Rollback[T]{})
}

// Entities sharing a zero key are merged last-write-wins; report it so the
// caller can spot a missing identifier.
func (d *Dispatcher[T, K]) checkKeys(entities ...T) {
	var zero K
	for _, entity := range entities {
		if d.keyFrom(entity) == zero {
			d.logger.Warn("entity has zero key; merging by zero value", slog.Any("key", zero))
		}
	}
}
