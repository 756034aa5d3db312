// Package dym produces "did you mean" suggestions for unknown keys, the way
// the toolchain description parser and the usage-requirement map report an
// unrecognized key back to the user.
package dym

import (
	"sort"

	"github.com/agext/levenshtein"
)

// maxDistance bounds how different a suggestion may be from the input
// before it is considered unhelpful noise.
const maxDistance = 3

// Suggest returns the known value closest to got by edit distance, or ""
// if nothing in known is close enough to be useful.
func Suggest(got string, known []string) string {
	best := ""
	bestDist := maxDistance + 1
	for _, k := range known {
		d := levenshtein.Distance(got, k, nil)
		if d < bestDist || (d == bestDist && k < best) {
			bestDist = d
			best = k
		}
	}
	if bestDist > maxDistance {
		return ""
	}
	return best
}

// SuggestAll returns every known value within maxDistance of got, closest
// first, for callers that want to present more than one candidate.
func SuggestAll(got string, known []string) []string {
	type scored struct {
		val  string
		dist int
	}
	var matches []scored
	for _, k := range known {
		d := levenshtein.Distance(got, k, nil)
		if d <= maxDistance {
			matches = append(matches, scored{k, d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].val < matches[j].val
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.val
	}
	return out
}
