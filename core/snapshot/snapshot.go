// Package snapshot writes a built index to a directory of flat JSON lookup
// tables, reads it back, and verifies it against its manifest.
//
// Every table is a single JSON object with keys in canonical order: surah
// and juz numbers ascending, ayah references in (surah, ayah) order and
// phrases in byte order. Arabic text is written as literal UTF-8. The
// manifest carries no timestamps, so building twice from the same inputs
// yields byte-identical files.
package snapshot

import (
	"slices"

	"github.com/FocuswithJustin/GuessTheSurah/core/corpus"
	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/index"
	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// FormatVersion is bumped whenever a table changes shape.
const FormatVersion = 2

// Artifact file names.
const (
	JuzRangesFile    = "juz_num_to_ayah_range.json"
	PreviousFile     = "ayah_num_to_prev_ayah_num.json"
	SurahAyahsFile   = "surah_num_to_ayah_nums.json"
	TextFile         = "ayah_num_to_ayah.json"
	SurahPhrasesFile = "surah_num_to_phrases.json"
	OwnersFile       = "phrase_to_ayah_num.json"
	NamesFile        = "surah_num_to_name.json"
	ArabicNamesFile  = "surah_num_to_arabic_name.json"
	ManifestFile     = "manifest.json"
)

// requiredFiles are present in every snapshot.
var requiredFiles = []string{
	JuzRangesFile,
	PreviousFile,
	SurahAyahsFile,
	TextFile,
	SurahPhrasesFile,
	OwnersFile,
}

// knownFiles are all the tables a snapshot may hold.
var knownFiles = append(slices.Clone(requiredFiles), NamesFile, ArabicNamesFile)

// Documents is the in-memory form of a snapshot.
type Documents struct {
	MinWords    int
	StripPrefix string
	Stats       index.Stats

	JuzRanges    []juz.Range
	Previous     map[quran.AyahRef]quran.AyahRef
	SurahAyahs   map[int][]quran.AyahRef
	Text         map[quran.AyahRef]string
	SurahPhrases map[int][]string
	Owners       map[string]quran.AyahRef

	// Optional name tables; nil when not supplied.
	Names       corpus.Names
	ArabicNames corpus.Names
}

// FromIndex collects the tables of a built index. Name tables, when given,
// must cover all 114 surahs.
func FromIndex(idx *index.Index, names, arabicNames corpus.Names) (*Documents, error) {
	if idx == nil {
		return nil, errors.NewValidation("index", "index has not been built")
	}
	for _, n := range []corpus.Names{names, arabicNames} {
		if n == nil {
			continue
		}
		if err := n.Validate(); err != nil {
			return nil, err
		}
	}

	docs := &Documents{
		MinWords:     idx.MinWords(),
		StripPrefix:  idx.StripPrefix(),
		Stats:        idx.Stats(),
		JuzRanges:    idx.Table().Ranges(),
		Previous:     idx.PreviousChain(),
		SurahAyahs:   make(map[int][]quran.AyahRef, quran.SurahCount),
		Text:         make(map[quran.AyahRef]string),
		SurahPhrases: make(map[int][]string, quran.SurahCount),
		Owners:       idx.Owners(),
		Names:        names,
		ArabicNames:  arabicNames,
	}
	for _, ref := range idx.Refs() {
		docs.Text[ref], _ = idx.Text(ref)
	}
	for s := 1; s <= quran.SurahCount; s++ {
		docs.SurahAyahs[s], _ = idx.SurahAyahs(s)
		docs.SurahPhrases[s], _ = idx.SurahPhrases(s)
	}
	return docs, nil
}

// Index restores the index the documents were written from, then checks
// the stored derived tables against the re-derived ones.
func (d *Documents) Index() (*index.Index, error) {
	idx, err := index.Restore(index.Source{
		Ranges:      d.JuzRanges,
		SurahAyahs:  d.SurahAyahs,
		Text:        d.Text,
		Owners:      d.Owners,
		MinWords:    d.MinWords,
		StripPrefix: d.StripPrefix,
	})
	if err != nil {
		return nil, err
	}

	chain := idx.PreviousChain()
	if len(chain) != len(d.Previous) {
		return nil, errors.NewIntegrity(PreviousFile, "%d entries stored, %d derived", len(d.Previous), len(chain))
	}
	for ref, prev := range d.Previous {
		if chain[ref] != prev {
			return nil, errors.NewIntegrity(PreviousFile, "ayah %s stores previous %s, derived %s", ref, prev, chain[ref])
		}
	}

	for s := 1; s <= quran.SurahCount; s++ {
		derived, _ := idx.SurahPhrases(s)
		if !slices.Equal(derived, d.SurahPhrases[s]) {
			return nil, errors.NewIntegrity(SurahPhrasesFile, "surah %d phrases differ from phrase table", s)
		}
	}

	return idx, nil
}
