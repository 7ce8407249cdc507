// Package util holds small, domain-agnostic helpers shared across the
// parsers, aggregators, and mode runners.
package util

import "math/rand/v2"

// FisherYates returns a uniformly random permutation of [0, n). It never
// mutates global state beyond the package-level rand/v2 source and draws
// from a cryptographically-uninteresting but statistically uniform source,
// per spec.md §9.
func FisherYates(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// ShuffleStrings returns a new slice holding items in a uniformly random
// order, leaving items untouched.
func ShuffleStrings(items []string) []string {
	perm := FisherYates(len(items))
	out := make([]string, len(items))
	for i, p := range perm {
		out[i] = items[p]
	}
	return out
}
