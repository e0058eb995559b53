// Package quiz draws "guess the surah" questions from a built index and
// expands hints backwards through the text. All functions are pure: the
// caller owns the random source and the hint state.
package quiz

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/index"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Range is an inclusive range of surah numbers.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FullRange covers the whole Qur'an.
func FullRange() Range {
	return Range{Start: 1, End: quran.SurahCount}
}

// DefaultRange is the range offered to a new player: surahs 100-114 in
// easy mode, everything otherwise.
func DefaultRange(easy bool) Range {
	if easy {
		return Range{Start: 100, End: quran.SurahCount}
	}
	return FullRange()
}

// Validate checks that both ends are surah numbers and Start <= End.
func (r Range) Validate() error {
	if r.Start < 1 || r.End > quran.SurahCount || r.Start > r.End {
		return errors.NewValidation("surah range", fmt.Sprintf("%d-%d is not within 1-%d", r.Start, r.End, quran.SurahCount))
	}
	return nil
}

// Question is what the player sees and must place in a surah.
type Question struct {
	Ref quran.AyahRef `json:"ref"`

	// Text is a unique phrase, or the whole ayah in easy mode.
	Text string `json:"text"`
	Easy bool   `json:"easy"`
}

func requireIndex(idx *index.Index) error {
	if idx == nil {
		return errors.NewValidation("index", "index has not been built")
	}
	return nil
}

// RandomPhrase picks a surah in r that has at least one unique phrase, then
// one of its phrases.
func RandomPhrase(idx *index.Index, rng *rand.Rand, r Range) (Question, error) {
	if err := requireIndex(idx); err != nil {
		return Question{}, err
	}
	if err := r.Validate(); err != nil {
		return Question{}, err
	}

	var eligible [][]string
	for s := r.Start; s <= r.End; s++ {
		if phrases, _ := idx.SurahPhrases(s); len(phrases) > 0 {
			eligible = append(eligible, phrases)
		}
	}
	if len(eligible) == 0 {
		return Question{}, errors.NewNotFound("phrases in surahs", fmt.Sprintf("%d-%d", r.Start, r.End))
	}

	phrases := eligible[rng.IntN(len(eligible))]
	return phraseQuestion(idx, phrases[rng.IntN(len(phrases))])
}

// RandomJuzPhrase picks one phrase from the ayahs of juz j.
func RandomJuzPhrase(idx *index.Index, rng *rand.Rand, j int) (Question, error) {
	if err := requireIndex(idx); err != nil {
		return Question{}, err
	}
	byAyah, ok := idx.JuzPhrases(j)
	if !ok {
		return Question{}, errors.NewValidation("juz", fmt.Sprintf("%d is not within 1-%d", j, quran.JuzCount))
	}
	if len(byAyah) == 0 {
		return Question{}, errors.NewNotFound("phrases in juz", fmt.Sprint(j))
	}

	refs := make([]quran.AyahRef, 0, len(byAyah))
	for ref := range byAyah {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(a, b int) bool { return refs[a].Less(refs[b]) })

	ref := refs[rng.IntN(len(refs))]
	phrases := byAyah[ref]
	return Question{Ref: ref, Text: phrases[rng.IntN(len(phrases))]}, nil
}

func phraseQuestion(idx *index.Index, p string) (Question, error) {
	ref, ok := idx.Owner(p)
	if !ok {
		return Question{}, errors.NewIntegrity("phrase index", "surah table lists unowned phrase %q", p)
	}
	return Question{Ref: ref, Text: p}, nil
}

// RandomAyah picks a whole ayah from a surah in r. The first ayah of a
// surah is skipped unless it is the only one.
func RandomAyah(idx *index.Index, rng *rand.Rand, r Range) (Question, error) {
	if err := requireIndex(idx); err != nil {
		return Question{}, err
	}
	if err := r.Validate(); err != nil {
		return Question{}, err
	}

	var eligible [][]quran.AyahRef
	for s := r.Start; s <= r.End; s++ {
		if refs, _ := idx.SurahAyahs(s); len(refs) > 0 {
			eligible = append(eligible, refs)
		}
	}
	if len(eligible) == 0 {
		return Question{}, errors.NewNotFound("ayahs in surahs", fmt.Sprintf("%d-%d", r.Start, r.End))
	}

	refs := eligible[rng.IntN(len(eligible))]
	if len(refs) > 1 {
		refs = refs[1:]
	}
	ref := refs[rng.IntN(len(refs))]
	text, _ := idx.Text(ref)
	return Question{Ref: ref, Text: text, Easy: true}, nil
}

// CheckGuess reports whether surah is where q comes from.
func CheckGuess(q Question, surah int) (bool, error) {
	if surah < 1 || surah > quran.SurahCount {
		return false, errors.NewValidation("surah", fmt.Sprintf("%d is not within 1-%d", surah, quran.SurahCount))
	}
	return q.Ref.Surah == surah, nil
}
