package repositories

import "fmt"

// firestoreInLimit is the server-side cap on values in a single "in"
// disjunction filter.
const firestoreInLimit = 30

// NextEventCode derives the URL code for a memory on the given date.
// The first memory of a date gets the bare date; later ones get -2, -3,
// and so on. taken is the set of codes already allocated for that date.
// The check-then-write around this helper is not transactional, so two
// concurrent creates on the same date can still double-allocate.
func NextEventCode(date string, taken []string) string {
	return nextAvailable(date, taken)
}

// nextAvailable probes base, base-2, base-3, ... until a code not in
// taken is found.
func nextAvailable(base string, taken []string) string {
	used := make(map[string]bool, len(taken))
	for _, t := range taken {
		used[t] = true
	}
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		code := fmt.Sprintf("%s-%d", base, n)
		if !used[code] {
			return code
		}
	}
}

// chunkStrings splits ids into slices of at most size elements.
func chunkStrings(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
