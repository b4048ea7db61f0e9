// Package batch splits update payloads into marketplace-sized requests.
package batch

// Chunk splits items into contiguous sub-slices of at most size elements.
// The final chunk may be shorter; chunks alias the input slice.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic("batch: non-positive chunk size")
	}

	var chunks [][]T
	for len(items) > size {
		chunks = append(chunks, items[:size:size])
		items = items[size:]
	}
	if len(items) > 0 {
		chunks = append(chunks, items)
	}
	return chunks
}
