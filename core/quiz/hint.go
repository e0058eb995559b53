package quiz

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/index"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// AyahSeparator is placed between text taken from consecutive ayahs.
const AyahSeparator = " ● "

// ErrStartOfSurah is returned when a hint cannot grow further back.
var ErrStartOfSurah = fmt.Errorf("%w: already at the beginning of the surah", errors.ErrNotFound)

// Hint is the text shown for a question after zero or more expansions.
type Hint struct {
	Text string `json:"text"`

	// Ref is the ayah the leftmost shown word belongs to.
	Ref quran.AyahRef `json:"ref"`

	// Next is the index, within Ref's words, of the word AddWord will
	// prefix next. -1 once Ref is fully shown.
	Next int `json:"next"`
}

// NewHint starts a hint from q. For a phrase question the phrase is located
// in its ayah so expansion continues with the word before it. Hints only
// show the words phrases were drawn from, so a stripped basmalah counts as
// the start of the surah.
func NewHint(idx *index.Index, q Question) (Hint, error) {
	if err := requireIndex(idx); err != nil {
		return Hint{}, err
	}
	words, ok := idx.PhraseWords(q.Ref)
	if !ok {
		return Hint{}, errors.NewNotFound("ayah", q.Ref.String())
	}
	if q.Easy {
		return Hint{Text: q.Text, Ref: q.Ref, Next: -1}, nil
	}

	start := lastIndex(words, strings.Fields(q.Text))
	if start < 0 {
		return Hint{}, errors.NewIntegrity("hint", "phrase %q not found in ayah %s", q.Text, q.Ref)
	}
	return Hint{Text: q.Text, Ref: q.Ref, Next: start - 1}, nil
}

// lastIndex returns the start of the last word-aligned occurrence of
// needle in words, or -1.
func lastIndex(words, needle []string) int {
	if len(needle) == 0 {
		return -1
	}
	for i := len(words) - len(needle); i >= 0; i-- {
		match := true
		for k, w := range needle {
			if words[i+k] != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// AddWord prefixes one more word. Once the current ayah is exhausted the
// last word of the previous ayah is added behind an AyahSeparator. At the
// start of a surah h is returned unchanged with ErrStartOfSurah.
func AddWord(idx *index.Index, h Hint) (Hint, error) {
	if err := requireIndex(idx); err != nil {
		return h, err
	}

	if h.Next >= 0 {
		words, _ := idx.PhraseWords(h.Ref)
		if h.Next >= len(words) {
			return h, errors.NewValidation("hint", fmt.Sprintf("word %d is past the end of ayah %s", h.Next, h.Ref))
		}
		h.Text = words[h.Next] + " " + h.Text
		h.Next--
		return h, nil
	}

	prev, words, err := previousWithWords(idx, h.Ref)
	if err != nil {
		return h, err
	}
	last := len(words) - 1
	return Hint{
		Text: words[last] + AyahSeparator + h.Text,
		Ref:  prev,
		Next: last - 1,
	}, nil
}

// PrefixAyah prefixes the whole previous ayah, the easy-mode hint.
func PrefixAyah(idx *index.Index, h Hint) (Hint, error) {
	if err := requireIndex(idx); err != nil {
		return h, err
	}

	prev, words, err := previousWithWords(idx, h.Ref)
	if err != nil {
		return h, err
	}
	return Hint{
		Text: strings.Join(words, " ") + AyahSeparator + h.Text,
		Ref:  prev,
		Next: -1,
	}, nil
}

// previousWithWords walks back from ref to the nearest earlier ayah in the
// same surah that has any phrase words.
func previousWithWords(idx *index.Index, ref quran.AyahRef) (quran.AyahRef, []string, error) {
	for {
		prev, ok := idx.Previous(ref)
		if !ok {
			return ref, nil, ErrStartOfSurah
		}
		if words, _ := idx.PhraseWords(prev); len(words) > 0 {
			return prev, words, nil
		}
		ref = prev
	}
}
