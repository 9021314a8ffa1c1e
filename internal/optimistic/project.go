package optimistic

// Reducer synthesizes the optimistic view of a pending mutation on top of the
// confirmed array. It must not modify prev.
type Reducer[T, U any] func(prev []T, mutation U) []T

// Project derives the optimistic view. With no pending mutation it returns
// confirmed unchanged.
func Project[T, U any](confirmed []T, mutation *U, reduce Reducer[T, U]) []T {
	if mutation == nil || reduce == nil {
		return confirmed
	}
	return reduce(confirmed, *mutation)
}
