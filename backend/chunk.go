package backend

// MaxInListSize is the chunking threshold from spec.md §4.1: row-oriented
// backends must batch any IN-list at or above ~900 entries into chunks and
// concatenate the results. SQLite's compiled default for the number of host
// parameters in a single statement (SQLITE_MAX_VARIABLE_NUMBER influenced
// limit in practice) makes a single 3000-state IN-list a correctness bug,
// not just a performance one, if left unchunked.
const MaxInListSize = 900

// ChunkValues splits values into slices no longer than MaxInListSize,
// preserving order. A caller builds one "IN (...)" predicate per chunk and
// unions the results.
func ChunkValues(values []Value) [][]Value {
	if len(values) == 0 {
		return nil
	}
	var chunks [][]Value
	for start := 0; start < len(values); start += MaxInListSize {
		end := start + MaxInListSize
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}
