package index

import (
	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/phrase"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Source is the serialized form an Index is restored from. Only primary
// tables are needed; the reverse tables are derived again exactly as Build
// derives them.
type Source struct {
	Ranges     []juz.Range
	SurahAyahs map[int][]quran.AyahRef
	Text       map[quran.AyahRef]string
	Owners     map[string]quran.AyahRef
	MinWords   int

	// StripPrefix is the prefix the index was built with.
	StripPrefix string
}

// Restore rebuilds an Index from previously written tables without
// re-running enumeration.
func Restore(src Source) (*Index, error) {
	table, err := juz.New(src.Ranges)
	if err != nil {
		return nil, err
	}

	var ayahs []quran.Ayah
	for s := 1; s <= quran.SurahCount; s++ {
		for pos, ref := range src.SurahAyahs[s] {
			if ref.Surah != s {
				return nil, errors.NewIntegrity("restore", "ayah %s listed under surah %d", ref, s)
			}
			text, ok := src.Text[ref]
			if !ok {
				return nil, errors.NewIntegrity("restore", "no text for ayah %s", ref)
			}
			ayahs = append(ayahs, quran.Ayah{Ref: ref, Text: text, Position: pos})
		}
	}
	if len(ayahs) == 0 {
		return nil, errors.NewValidation("corpus", "corpus contains no ayahs")
	}
	if len(ayahs) != len(src.Text) {
		return nil, errors.NewIntegrity("restore", "%d ayahs have text but %d are listed by surah", len(src.Text), len(ayahs))
	}
	if err := checkOrder(ayahs); err != nil {
		return nil, err
	}
	if err := table.CheckCoverage(ayahs); err != nil {
		return nil, err
	}

	minWords := src.MinWords
	if minWords < 1 {
		minWords = phrase.DefaultMinWords
	}
	for p := range src.Owners {
		if phrase.WordCount(p) < minWords {
			return nil, errors.NewIntegrity("restore", "phrase %q is shorter than %d words", p, minWords)
		}
	}

	grouped := phrase.GroupByAyah(src.Owners)
	for ref, phrases := range grouped {
		n := phrase.WordCount(phrases[0])
		for _, p := range phrases[1:] {
			if phrase.WordCount(p) != n {
				return nil, errors.NewIntegrity("restore", "ayah %s mixes phrases of %d and %d words", ref, n, phrase.WordCount(p))
			}
		}
	}

	return assemble(ayahs, table, grouped, minWords, src.StripPrefix)
}
