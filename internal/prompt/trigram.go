package prompt

import "strings"

// trigramSet returns the set of overlapping three-character substrings of s,
// lowercased and padded the way pg_trgm does ("  w", " wo", ..., "rd ").
func trigramSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := "  " + word + " "
		for i := 0; i+3 <= len(padded); i++ {
			set[padded[i:i+3]] = struct{}{}
		}
	}
	return set
}

// trigramSimilarity is the shared-trigram ratio of the two sets, mirroring
// pg_trgm's similarity(): |a ∩ b| / |a ∪ b|.
func trigramSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
