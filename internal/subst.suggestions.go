package internal

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// FindSimilarNames returns candidates that look like a near miss for target,
// best match first. A candidate qualifies when target fuzzy-matches it
// ("lastNm" -> "lastName") or when it fuzzy-matches target and covers at
// least half of it ("first" -> "firstName"). Matching is case-insensitive.
func FindSimilarNames(target string, candidates []string, maxSuggestions int) []string {
	if target == "" || len(candidates) == 0 || maxSuggestions <= 0 {
		return nil
	}

	sorted := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" && c != target {
			sorted = append(sorted, c)
		}
	}
	sort.Strings(sorted)

	result := make([]string, 0, maxSuggestions)
	picked := make(map[string]bool)
	add := func(s string) bool {
		if picked[s] {
			return false
		}
		picked[s] = true
		result = append(result, s)
		return len(result) >= maxSuggestions
	}

	// fuzzy.Find sorts by score, best first
	for _, m := range fuzzy.Find(target, sorted) {
		if add(m.Str) {
			return result
		}
	}

	targets := []string{target}
	for _, c := range sorted {
		if len(c)*2 < len(target) {
			continue
		}
		if len(fuzzy.Find(c, targets)) > 0 {
			if add(c) {
				return result
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
