package optimistic

// KeyFunc extracts the reconciliation key from an entity.
type KeyFunc[T any, K comparable] func(T) K

// Identified is implemented by entities that expose a stable identifier.
type Identified[K comparable] interface {
	EntityID() K
}

// ByID is the default KeyFunc: it keys an entity by its identifier.
func ByID[T Identified[K], K comparable](entity T) K {
	return entity.EntityID()
}

// UpdateArray folds items into arr by key. An item whose key is already
// present replaces the first matching element in place; an item with an
// unknown key is prepended. Items are applied in order, so later items win
// over earlier ones that share a key. arr is never modified.
func UpdateArray[T any, K comparable](arr []T, keyFrom KeyFunc[T, K], items ...T) []T {
	result := make([]T, len(arr), len(arr)+len(items))
	copy(result, arr)
	for _, item := range items {
		key := keyFrom(item)
		idx := indexOf(result, keyFrom, key)
		if idx >= 0 {
			result[idx] = item
			continue
		}
		result = append(result, item)
		copy(result[1:], result[:len(result)-1])
		result[0] = item
	}
	return result
}

// RemoveArray returns a new slice without any element whose key equals the
// key of item. Remaining elements keep their order.
func RemoveArray[T any, K comparable](arr []T, keyFrom KeyFunc[T, K], item T) []T {
	key := keyFrom(item)
	result := make([]T, 0, len(arr))
	for _, existing := range arr {
		if keyFrom(existing) == key {
			continue
		}
		result = append(result, existing)
	}
	return result
}

func indexOf[T any, K comparable](arr []T, keyFrom KeyFunc[T, K], key K) int {
	for i, existing := range arr {
		if keyFrom(existing) == key {
			return i
		}
	}
	return -1
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
