// Package phrase enumerates the contiguous word runs of an ayah, resolves
// which of them occur in exactly one ayah across the corpus, and keeps the
// shortest such runs per ayah.
package phrase

import (
	"sort"
	"strings"
)

// Separator joins the words of a phrase.
const Separator = " "

// DefaultMinWords is the default lower bound on phrase length.
const DefaultMinWords = 1

// Set is a set of phrases.
type Set map[string]struct{}

// Add inserts p into the set.
func (s Set) Add(p string) {
	s[p] = struct{}{}
}

// Has reports whether p is in the set.
func (s Set) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the members in byte order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// WordCount returns the number of words in p.
func WordCount(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, Separator) + 1
}

// Enumerate returns every contiguous run of words with at least minWords
// words. It carries the runs ending at the previous word forward, so an
// n-word ayah costs O(n²) phrases rather than branching at every word.
// minWords below 1 is treated as 1.
func Enumerate(words []string, minWords int) Set {
	if minWords < 1 {
		minWords = 1
	}

	set := make(Set)
	var ending []string // ending[k] is the (k+1)-word run ending at the previous word
	for _, word := range words {
		next := make([]string, 0, len(ending)+1)
		next = append(next, word)
		for _, p := range ending {
			next = append(next, p+Separator+word)
		}

		for k := minWords - 1; k < len(next); k++ {
			set.Add(next[k])
		}
		ending = next
	}
	return set
}
