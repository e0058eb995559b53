// Package arabic normalises Qur'anic text: removing tashkeel (vowel and
// related marks) and reducing letters to their undotted rasm skeleton.
package arabic

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// tashkeel covers fathatan through sukun, plus the superscript alef.
var tashkeel = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x064B, Hi: 0x0652, Stride: 1},
		{Lo: 0x0670, Hi: 0x0670, Stride: 1},
	},
}

// IsTashkeel reports whether r is a mark removed by StripTashkeel.
func IsTashkeel(r rune) bool {
	return unicode.Is(tashkeel, r)
}

// StripTashkeel removes every tashkeel mark from s.
func StripTashkeel(s string) string {
	out, _, _ := transform.String(runes.Remove(runes.Predicate(IsTashkeel)), s)
	return out
}

// dotless maps dotted letters to the undotted letter sharing their shape.
var dotless = map[rune]rune{
	'ب': 'ٮ',
	'ت': 'ٮ',
	'ث': 'ٮ',
	'ج': 'ح',
	'خ': 'ح',
	'ذ': 'د',
	'ز': 'ر',
	'ش': 'س',
	'ض': 'ص',
	'ظ': 'ط',
	'غ': 'ع',
	'ف': 'ڡ',
	'ة': 'ه',
	'أ': 'ا',
	'إ': 'ا',
	'آ': 'ا',
	'ؤ': 'و',
}

// form is the position of a letter within its word.
type form int

const (
	initial form = iota
	medial
	final
	isolated
)

// positional lists letters whose undotted shape depends on position, in
// initial, medial, final and isolated order.
var positional = map[rune][4]rune{
	'ق': {'ڡ', 'ڡ', 'ٯ', 'ٯ'},
	'ي': {'ٮ', 'ٮ', 'ى', 'ى'},
	'ئ': {'ٮ', 'ٮ', 'ى', 'ى'},
	'ن': {'ٮ', 'ٮ', 'ں', 'ں'},
}

func boundary(text []rune, i int) bool {
	return i < 0 || i >= len(text) || unicode.IsSpace(text[i])
}

func formAt(text []rune, i int) form {
	atStart, atEnd := boundary(text, i-1), boundary(text, i+1)
	switch {
	case atStart && atEnd:
		return isolated
	case atStart:
		return initial
	case atEnd:
		return final
	default:
		return medial
	}
}

// ToRasm strips tashkeel from s and replaces each letter with its undotted
// form. Letters whose undotted form depends on position within the word
// are resolved against their neighbours.
func ToRasm(s string) string {
	text := []rune(StripTashkeel(s))

	var sb strings.Builder
	sb.Grow(len(s))
	for i, r := range text {
		if d, ok := dotless[r]; ok {
			r = d
		}
		if forms, ok := positional[r]; ok {
			r = forms[formAt(text, i)]
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
