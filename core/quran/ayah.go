package quran

import "strings"

// Basmalah is the invocational formula that opens most surahs. When it is
// embedded at the start of a surah's first ayah it is removed before phrase
// enumeration.
const Basmalah = "بِسْمِ اللَّهِ الرَّحْمَـٰنِ الرَّحِيمِ"

// Ayah is one verse as loaded from the corpus.
type Ayah struct {
	Ref AyahRef

	// Text is the literal, diacritic-inclusive verse text.
	Text string

	// Position is the zero-based index of the ayah within its surah, in
	// corpus file order.
	Position int
}

// Words splits the ayah text on whitespace.
func (a Ayah) Words() []string {
	return strings.Fields(a.Text)
}

// PhraseText returns the text phrases are drawn from. For the first ayah of
// a surah a leading prefix (normally Basmalah) is removed. The result may be
// empty.
func (a Ayah) PhraseText(prefix string) string {
	text := strings.TrimSpace(a.Text)
	if a.Position == 0 && prefix != "" {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	return text
}

// PhraseWords is Words applied to PhraseText.
func (a Ayah) PhraseWords(prefix string) []string {
	return strings.Fields(a.PhraseText(prefix))
}
