// Package quran defines the corpus data model: ayah references, ayahs, and
// the fixed dimensions of the mushaf (114 surahs, 30 juz).
package quran

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

const (
	// SurahCount is the number of surahs in the mushaf.
	SurahCount = 114

	// JuzCount is the number of juz reading divisions.
	JuzCount = 30
)

// AyahRef identifies an ayah by surah and ayah number.
// Refs are totally ordered by (Surah, Ayah) and serialize as "surah:ayah".
type AyahRef struct {
	Surah int
	Ayah  int
}

// refGrammar is the participle grammar for "surah:ayah" references.
//
//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	Surah int `@Int`
	Ayah  int `":" @Int`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `:`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a reference of the form "2:255".
func ParseRef(s string) (AyahRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AyahRef{}, fmt.Errorf("empty ayah reference")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return AyahRef{}, fmt.Errorf("invalid ayah reference %q: %w", s, err)
	}

	ref := AyahRef{Surah: parsed.Surah, Ayah: parsed.Ayah}
	if !ref.Valid() {
		return AyahRef{}, fmt.Errorf("ayah reference out of range: %q", s)
	}
	return ref, nil
}

// MustParseRef is like ParseRef but panics on error. Intended for tests and
// static tables.
func MustParseRef(s string) AyahRef {
	ref, err := ParseRef(s)
	if err != nil {
		panic(err)
	}
	return ref
}

// Ref is shorthand for AyahRef{Surah: surah, Ayah: ayah}.
func Ref(surah, ayah int) AyahRef {
	return AyahRef{Surah: surah, Ayah: ayah}
}

// String returns the "surah:ayah" form.
func (r AyahRef) String() string {
	return strconv.Itoa(r.Surah) + ":" + strconv.Itoa(r.Ayah)
}

// Valid reports whether the surah is within 1..SurahCount and the ayah is positive.
func (r AyahRef) Valid() bool {
	return r.Surah >= 1 && r.Surah <= SurahCount && r.Ayah >= 1
}

// Compare returns -1, 0 or 1 depending on whether r sorts before, equal to,
// or after other.
func (r AyahRef) Compare(other AyahRef) int {
	switch {
	case r.Surah < other.Surah:
		return -1
	case r.Surah > other.Surah:
		return 1
	case r.Ayah < other.Ayah:
		return -1
	case r.Ayah > other.Ayah:
		return 1
	}
	return 0
}

// Less reports whether r sorts before other.
func (r AyahRef) Less(other AyahRef) bool {
	return r.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler so refs can be JSON map keys.
func (r AyahRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *AyahRef) UnmarshalText(text []byte) error {
	ref, err := ParseRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}
