// Package juz maps the 30 juz reading divisions to their inclusive ayah
// ranges and locates the juz containing a given ayah.
package juz

import (
	"fmt"
	"sort"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Range is the inclusive ayah range of one juz.
type Range struct {
	Juz   int
	Start quran.AyahRef
	End   quran.AyahRef
}

// String renders the range in boundary-table notation, e.g. "1:1-2:141".
func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Order is the result of comparing an ayah against a Range.
type Order int

const (
	// Before means the ayah precedes the range.
	Before Order = iota - 1
	// Within means the range contains the ayah.
	Within
	// After means the ayah follows the range.
	After
)

func (o Order) String() string {
	switch o {
	case Before:
		return "before"
	case Within:
		return "within"
	case After:
		return "after"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// Position reports where target falls relative to r. Surahs are compared
// first; ayah numbers only matter when target's surah equals an endpoint's.
func Position(r Range, target quran.AyahRef) Order {
	surah, ayah := target.Surah, target.Ayah

	switch {
	case surah < r.Start.Surah:
		return Before
	case surah > r.End.Surah:
		return After
	case surah > r.Start.Surah && surah < r.End.Surah:
		return Within
	case surah == r.Start.Surah && surah == r.End.Surah:
		if ayah < r.Start.Ayah {
			return Before
		}
		if ayah > r.End.Ayah {
			return After
		}
		return Within
	case surah == r.Start.Surah:
		if ayah < r.Start.Ayah {
			return Before
		}
		return Within
	default: // surah == r.End.Surah
		if ayah > r.End.Ayah {
			return After
		}
		return Within
	}
}

// Table holds all 30 juz ranges in ascending order. A Table returned by New
// is total over its key space and free of overlaps.
type Table struct {
	ranges [quran.JuzCount]Range
}

// New validates ranges and builds a Table. Exactly one range must exist for
// each juz 1..30, each range must be non-empty, and consecutive ranges must
// be strictly ascending.
func New(ranges []Range) (*Table, error) {
	if len(ranges) != quran.JuzCount {
		return nil, errors.NewIntegrity("juz table", "expected %d ranges, got %d", quran.JuzCount, len(ranges))
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Juz < sorted[j].Juz })

	t := &Table{}
	for i, r := range sorted {
		if r.Juz != i+1 {
			return nil, errors.NewIntegrity("juz table", "missing or duplicate juz %d", i+1)
		}
		if !r.Start.Valid() || !r.End.Valid() {
			return nil, errors.NewIntegrity("juz table", "juz %d has invalid bounds %s", r.Juz, r)
		}
		if r.Start.Compare(r.End) > 0 {
			return nil, errors.NewIntegrity("juz table", "juz %d starts after it ends: %s", r.Juz, r)
		}
		if i > 0 && r.Start.Compare(sorted[i-1].End) <= 0 {
			return nil, errors.NewIntegrity("juz table", "juz %d starts at %s before juz %d ends at %s",
				r.Juz, r.Start, sorted[i-1].Juz, sorted[i-1].End)
		}
		t.ranges[i] = r
	}

	return t, nil
}

// Locate returns the juz number containing ref. Failing to find one is an
// integrity defect in the table, not a caller error.
func (t *Table) Locate(ref quran.AyahRef) (int, error) {
	lo, hi := 0, len(t.ranges)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch Position(t.ranges[mid], ref) {
		case Within:
			return t.ranges[mid].Juz, nil
		case Before:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return 0, errors.NewIntegrity("juz table", "no juz contains ayah %s", ref)
}

// Range returns the range of juz j.
func (t *Table) Range(j int) (Range, bool) {
	if j < 1 || j > len(t.ranges) {
		return Range{}, false
	}
	return t.ranges[j-1], true
}

// Ranges returns a copy of all ranges ordered by juz number.
func (t *Table) Ranges() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges[:])
	return out
}

// CheckCoverage verifies that every ayah in corpus order locates to a juz
// and that juz numbers never decrease along the corpus.
func (t *Table) CheckCoverage(ayahs []quran.Ayah) error {
	prev := 0
	var prevRef quran.AyahRef
	for _, a := range ayahs {
		j, err := t.Locate(a.Ref)
		if err != nil {
			return err
		}
		if j < prev {
			return errors.NewIntegrity("juz table", "ayah %s in juz %d follows %s in juz %d", a.Ref, j, prevRef, prev)
		}
		prev, prevRef = j, a.Ref
	}
	return nil
}
