package aggregation

// TopPerKey partitions rows by key and keeps, per partition, the single row
// ranked first by better. It is the one "pick one row per group" primitive
// behind latest-RTP, latest-profile and dominant-category resolution.
//
// When better reports neither row ahead of the other (an exact tie) the row
// seen first wins, so for tied rows the result depends on input order and
// callers must not rely on a specific winner.
func TopPerKey[K comparable, T any](rows []T, key func(T) K, better func(a, b T) bool) map[K]T {
	top := make(map[K]T)
	for _, row := range rows {
		k := key(row)
		cur, ok := top[k]
		if !ok || better(row, cur) {
			top[k] = row
		}
	}
	return top
}
