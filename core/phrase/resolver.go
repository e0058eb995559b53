package phrase

import (
	"fmt"
	"sort"

	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Resolver folds per-ayah phrase sets into the set of phrases owned by
// exactly one ayah. All ayahs must be observed before Finalize, since a
// collision may only show up on a later ayah. Observation order does not
// affect the result.
type Resolver struct {
	owners    map[string]quran.AyahRef
	shared    Set
	ayahs     int
	finalized bool
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		owners: make(map[string]quran.AyahRef),
		shared: make(Set),
	}
}

// Observe records the phrases of one ayah. A phrase already owned by a
// different ayah becomes shared; a repeat from the same ayah is not a
// collision.
func (r *Resolver) Observe(ref quran.AyahRef, phrases Set) error {
	if r.finalized {
		return fmt.Errorf("phrase resolver: observe %s after finalize", ref)
	}

	r.ayahs++
	for p := range phrases {
		owner, seen := r.owners[p]
		switch {
		case !seen:
			r.owners[p] = ref
		case owner != ref:
			r.shared.Add(p)
		}
	}
	return nil
}

// Finalize drops every shared phrase and returns the remaining
// phrase→owner map. Later calls return a fresh copy of the same result.
func (r *Resolver) Finalize() map[string]quran.AyahRef {
	if !r.finalized {
		for p := range r.shared {
			delete(r.owners, p)
		}
		r.finalized = true
	}

	out := make(map[string]quran.AyahRef, len(r.owners))
	for p, ref := range r.owners {
		out[p] = ref
	}
	return out
}

// Candidates returns every unique phrase of ref in byte order. It is only
// meaningful after Finalize and returns nil before.
func (r *Resolver) Candidates(ref quran.AyahRef) []string {
	if !r.finalized {
		return nil
	}
	var out []string
	for p, owner := range r.owners {
		if owner == ref {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// ResolverStats summarises a fold.
type ResolverStats struct {
	Ayahs  int // ayahs observed
	Shared int // phrases seen in two or more ayahs
	Unique int // phrases owned by one ayah (after Finalize)
}

// Stats reports counts for logging.
func (r *Resolver) Stats() ResolverStats {
	unique := len(r.owners)
	if !r.finalized {
		unique -= len(r.shared)
	}
	return ResolverStats{Ayahs: r.ayahs, Shared: len(r.shared), Unique: unique}
}

// GroupByAyah inverts a phrase→owner map. Each slice is sorted.
func GroupByAyah(owners map[string]quran.AyahRef) map[quran.AyahRef][]string {
	grouped := make(map[quran.AyahRef][]string)
	for p, ref := range owners {
		grouped[ref] = append(grouped[ref], p)
	}
	for _, phrases := range grouped {
		sort.Strings(phrases)
	}
	return grouped
}

// Minimize keeps, for each ayah, only its unique phrases with the fewest
// words. Ties are all kept. Ayahs without unique phrases are absent.
func Minimize(owners map[string]quran.AyahRef) map[quran.AyahRef][]string {
	grouped := GroupByAyah(owners)
	for ref, phrases := range grouped {
		shortest := WordCount(phrases[0])
		for _, p := range phrases[1:] {
			if n := WordCount(p); n < shortest {
				shortest = n
			}
		}

		kept := phrases[:0]
		for _, p := range phrases {
			if WordCount(p) == shortest {
				kept = append(kept, p)
			}
		}
		grouped[ref] = kept
	}
	return grouped
}
