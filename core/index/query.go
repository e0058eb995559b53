package index

import (
	"sort"

	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Owner returns the ayah that uniquely contains phrase.
func (idx *Index) Owner(p string) (quran.AyahRef, bool) {
	ref, ok := idx.owners[p]
	return ref, ok
}

// PhraseWords returns the words of ref that phrases were drawn from: the
// ayah text with the strip prefix removed when ref opens its surah.
func (idx *Index) PhraseWords(ref quran.AyahRef) ([]string, bool) {
	text, ok := idx.text[ref]
	if !ok {
		return nil, false
	}
	a := quran.Ayah{Ref: ref, Text: text}
	if _, ok := idx.previous[ref]; ok {
		a.Position = 1
	}
	return a.PhraseWords(idx.stripPrefix), true
}

// Phrases returns the minimal unique phrases of ref, sorted. It is empty
// when the ayah has none.
func (idx *Index) Phrases(ref quran.AyahRef) []string {
	return clone(idx.ayahPhrases[ref])
}

// SurahPhrases returns every phrase owned by an ayah of surah n, sorted.
// Every surah 1..114 is present, possibly with an empty slice; ok is false
// only for numbers outside that range.
func (idx *Index) SurahPhrases(n int) ([]string, bool) {
	if n < 1 || n > quran.SurahCount {
		return nil, false
	}
	out := make([]string, len(idx.surahPhrases[n]))
	copy(out, idx.surahPhrases[n])
	return out, true
}

// JuzPhrases returns the phrases of each ayah in juz j that has any.
func (idx *Index) JuzPhrases(j int) (map[quran.AyahRef][]string, bool) {
	if j < 1 || j > quran.JuzCount {
		return nil, false
	}
	out := make(map[quran.AyahRef][]string, len(idx.juzPhrases[j]))
	for ref, phrases := range idx.juzPhrases[j] {
		out[ref] = clone(phrases)
	}
	return out, true
}

// Juz returns the juz containing ref.
func (idx *Index) Juz(ref quran.AyahRef) (int, bool) {
	j, ok := idx.juzOf[ref]
	return j, ok
}

// JuzRange returns the inclusive range of juz j.
func (idx *Index) JuzRange(j int) (juz.Range, bool) {
	return idx.table.Range(j)
}

// Previous returns the ayah before ref in the same surah. ok is false at
// the start of a surah and for unknown refs.
func (idx *Index) Previous(ref quran.AyahRef) (quran.AyahRef, bool) {
	prev, ok := idx.previous[ref]
	return prev, ok
}

// SurahAyahs returns the ayahs of surah n in corpus order.
func (idx *Index) SurahAyahs(n int) ([]quran.AyahRef, bool) {
	if n < 1 || n > quran.SurahCount {
		return nil, false
	}
	out := make([]quran.AyahRef, len(idx.surahAyahs[n]))
	copy(out, idx.surahAyahs[n])
	return out, true
}

// Text returns the literal text of ref.
func (idx *Index) Text(ref quran.AyahRef) (string, bool) {
	text, ok := idx.text[ref]
	return text, ok
}

// Refs returns every ayah in corpus order.
func (idx *Index) Refs() []quran.AyahRef {
	out := make([]quran.AyahRef, len(idx.refs))
	copy(out, idx.refs)
	return out
}

// AllPhrases returns every indexed phrase in byte order.
func (idx *Index) AllPhrases() []string {
	out := make([]string, 0, len(idx.owners))
	for p := range idx.owners {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Owners returns a copy of the phrase→ayah table.
func (idx *Index) Owners() map[string]quran.AyahRef {
	out := make(map[string]quran.AyahRef, len(idx.owners))
	for p, ref := range idx.owners {
		out[p] = ref
	}
	return out
}

// PreviousChain returns a copy of the ayah→previous-ayah table.
func (idx *Index) PreviousChain() map[quran.AyahRef]quran.AyahRef {
	out := make(map[quran.AyahRef]quran.AyahRef, len(idx.previous))
	for ref, prev := range idx.previous {
		out[ref] = prev
	}
	return out
}

func clone(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
