package collectionutils

// Associate builds a map holding one entry per item, as produced by pair.
// Later items overwrite earlier ones that yield the same key.
func Associate[T any, K comparable, V any](items []T, pair func(T) (K, V)) map[K]V {
	result := make(map[K]V, len(items))
	for _, item := range items {
		key, value := pair(item)
		result[key] = value
	}
	return result
}

// GroupBy buckets items by key, keeping their relative order inside each bucket.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	result := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		result[k] = append(result[k], item)
	}
	return result
}

func GetOrDefault[K comparable, V any](m map[K]V, key K, fallback V) V {
	if value, ok := m[key]; ok {
		return value
	}
	return fallback
}
