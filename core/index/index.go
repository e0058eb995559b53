// Package index builds the unique-phrase index from a loaded corpus and a
// juz boundary table, and answers read-only queries against it.
//
// A nil *Index is an unbuilt index. Build and Restore are the only ways to
// obtain a built one, and a built Index is never mutated: every query
// returns a copy.
package index

import (
	"sort"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/phrase"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Options controls a build.
type Options struct {
	// MinWords drops candidate phrases shorter than this before uniqueness
	// and minimality are decided. Values below 1 mean 1.
	MinWords int

	// StripPrefix is removed from the start of each surah's first ayah
	// before enumeration. Empty disables stripping.
	StripPrefix string
}

// DefaultOptions returns the options used by the command line tools.
func DefaultOptions() Options {
	return Options{
		MinWords:    phrase.DefaultMinWords,
		StripPrefix: quran.Basmalah,
	}
}

func (o Options) minWords() int {
	if o.MinWords < 1 {
		return phrase.DefaultMinWords
	}
	return o.MinWords
}

// Stats summarises a built index.
type Stats struct {
	Ayahs            int `json:"ayahs"`
	Surahs           int `json:"surahs"`
	AyahsWithPhrases int `json:"ayahs_with_phrases"`
	Phrases          int `json:"phrases"`
}

// Index is the complete set of cross-referenced lookup tables. All maps are
// derived in one pass from the same filtered phrase set.
type Index struct {
	minWords    int
	stripPrefix string
	table       *juz.Table

	refs       []quran.AyahRef                 // corpus order
	text       map[quran.AyahRef]string        // literal ayah text
	previous   map[quran.AyahRef]quran.AyahRef // absent for each surah's first ayah
	juzOf      map[quran.AyahRef]int
	surahAyahs [quran.SurahCount + 1][]quran.AyahRef

	owners       map[string]quran.AyahRef
	ayahPhrases  map[quran.AyahRef][]string
	surahPhrases [quran.SurahCount + 1][]string
	juzPhrases   [quran.JuzCount + 1]map[quran.AyahRef][]string
}

// Build runs the whole pipeline over ayahs: order and juz coverage checks,
// enumeration, the global uniqueness fold and the minimality filter. Nothing
// is returned unless every stage succeeds.
func Build(ayahs []quran.Ayah, table *juz.Table, opts Options) (*Index, error) {
	if table == nil {
		return nil, errors.NewValidation("juz table", "table is required")
	}
	if len(ayahs) == 0 {
		return nil, errors.NewValidation("corpus", "corpus contains no ayahs")
	}
	if err := checkOrder(ayahs); err != nil {
		return nil, err
	}
	if err := table.CheckCoverage(ayahs); err != nil {
		return nil, err
	}

	minWords := opts.minWords()
	resolver := phrase.NewResolver()
	for _, a := range ayahs {
		candidates := phrase.Enumerate(a.PhraseWords(opts.StripPrefix), minWords)
		if err := resolver.Observe(a.Ref, candidates); err != nil {
			return nil, err
		}
	}

	minimal := phrase.Minimize(resolver.Finalize())
	return assemble(ayahs, table, minimal, minWords, opts.StripPrefix)
}

// checkOrder verifies the loader contract: refs strictly ascending and
// Position counting up from zero within each surah.
func checkOrder(ayahs []quran.Ayah) error {
	for i, a := range ayahs {
		if !a.Ref.Valid() {
			return errors.NewIntegrity("corpus order", "invalid ayah reference %s", a.Ref)
		}
		want := 0
		if i > 0 {
			prev := ayahs[i-1]
			if !prev.Ref.Less(a.Ref) {
				return errors.NewIntegrity("corpus order", "ayah %s follows %s", a.Ref, prev.Ref)
			}
			if prev.Ref.Surah == a.Ref.Surah {
				want = prev.Position + 1
			}
		}
		if a.Position != want {
			return errors.NewIntegrity("corpus order", "ayah %s has position %d, want %d", a.Ref, a.Position, want)
		}
	}
	return nil
}

// assemble derives every table from the corpus order and the minimal
// phrases per ayah.
func assemble(ayahs []quran.Ayah, table *juz.Table, minimal map[quran.AyahRef][]string, minWords int, stripPrefix string) (*Index, error) {
	idx := &Index{
		minWords:    minWords,
		stripPrefix: stripPrefix,
		table:       table,
		refs:        make([]quran.AyahRef, 0, len(ayahs)),
		text:        make(map[quran.AyahRef]string, len(ayahs)),
		previous:    make(map[quran.AyahRef]quran.AyahRef, len(ayahs)),
		juzOf:       make(map[quran.AyahRef]int, len(ayahs)),
		owners:      make(map[string]quran.AyahRef),
		ayahPhrases: make(map[quran.AyahRef][]string, len(minimal)),
	}
	for j := 1; j <= quran.JuzCount; j++ {
		idx.juzPhrases[j] = make(map[quran.AyahRef][]string)
	}

	for i, a := range ayahs {
		j, err := table.Locate(a.Ref)
		if err != nil {
			return nil, err
		}

		idx.refs = append(idx.refs, a.Ref)
		idx.text[a.Ref] = a.Text
		idx.juzOf[a.Ref] = j
		idx.surahAyahs[a.Ref.Surah] = append(idx.surahAyahs[a.Ref.Surah], a.Ref)
		if a.Position > 0 {
			idx.previous[a.Ref] = ayahs[i-1].Ref
		}

		phrases, ok := minimal[a.Ref]
		if !ok || len(phrases) == 0 {
			continue
		}
		idx.ayahPhrases[a.Ref] = phrases
		idx.juzPhrases[j][a.Ref] = phrases
		idx.surahPhrases[a.Ref.Surah] = append(idx.surahPhrases[a.Ref.Surah], phrases...)
		for _, p := range phrases {
			if other, dup := idx.owners[p]; dup {
				return nil, errors.NewIntegrity("phrase index", "phrase %q owned by both %s and %s", p, other, a.Ref)
			}
			idx.owners[p] = a.Ref
		}
	}

	if len(idx.ayahPhrases) != len(minimal) {
		for ref := range minimal {
			if _, ok := idx.text[ref]; !ok {
				return nil, errors.NewIntegrity("phrase index", "phrases reference unknown ayah %s", ref)
			}
		}
	}

	for s := 1; s <= quran.SurahCount; s++ {
		if idx.surahPhrases[s] == nil {
			idx.surahPhrases[s] = []string{}
			continue
		}
		sort.Strings(idx.surahPhrases[s])
	}

	return idx, nil
}

// MinWords returns the phrase-length floor the index was built with.
func (idx *Index) MinWords() int {
	return idx.minWords
}

// StripPrefix returns the prefix removed from each surah's first ayah
// before enumeration, or "" when none was.
func (idx *Index) StripPrefix() string {
	return idx.stripPrefix
}

// Table returns the juz boundary table the index was built against.
func (idx *Index) Table() *juz.Table {
	return idx.table
}

// Stats reports table sizes.
func (idx *Index) Stats() Stats {
	surahs := 0
	for s := 1; s <= quran.SurahCount; s++ {
		if len(idx.surahAyahs[s]) > 0 {
			surahs++
		}
	}
	return Stats{
		Ayahs:            len(idx.refs),
		Surahs:           surahs,
		AyahsWithPhrases: len(idx.ayahPhrases),
		Phrases:          len(idx.owners),
	}
}
