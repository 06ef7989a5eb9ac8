package utils

func Filter[T any](src []T, predicate func(T) bool) []T {
	dst := make([]T, 0, len(src))
	for _, item := range src {
		if predicate(item) {
			dst = append(dst, item)
		}
	}
	return dst
}

func Map[T any, U any](src []T, mapper func(T) U) []U {
	dst := make([]U, 0, len(src))
	for _, item := range src {
		dst = append(dst, mapper(item))
	}
	return dst
}

// Find returns a pointer into items, so callers may modify the match in place.
func Find[T any](items []T, predicate func(T) bool) *T {
	for i := range items {
		if predicate(items[i]) {
			return &items[i]
		}
	}
	return nil
}

func Count[T any](items []T, predicate func(T) bool) int {
	n := 0
	for _, item := range items {
		if predicate(item) {
			n++
		}
	}
	return n
}

func GroupBy[T any, K comparable](items []T, keyFunc func(T) K) map[K][]T {
	result := make(map[K][]T)
	for _, item := range items {
		key := keyFunc(item)
		result[key] = append(result[key], item)
	}
	return result
}

func Remove[T any](items []T, predicate func(T) bool) ([]T, int) {
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if !predicate(item) {
			kept = append(kept, item)
		}
	}
	return kept, len(items) - len(kept)
}
