// Package corpus loads the verse-per-line Qur'an text into ordered Ayah
// records. File order is canonical and is never re-sorted: the previous-ayah
// chain built downstream depends on it.
package corpus

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// FieldSeparator separates surah, ayah and text on a corpus line.
const FieldSeparator = "|"

// maxLineSize bounds a single corpus line (the longest ayah is well under 4 KiB).
const maxLineSize = 1 << 20

// Parse reads lines of "surah|ayah|text". Blank lines and lines starting
// with '#' are skipped. Any other line without exactly three fields aborts
// the parse.
func Parse(r io.Reader) ([]quran.Ayah, error) {
	var a assembler

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, FieldSeparator)
		if len(fields) != 3 {
			return nil, errors.NewParseLine("corpus", lineNo,
				"expected 3 fields separated by \"|\", got "+strconv.Itoa(len(fields)))
		}

		ref, err := parseRef(fields[0], fields[1])
		if err != nil {
			return nil, errors.NewParseLine("corpus", lineNo, err.Error())
		}

		if err := a.add(ref, fields[2]); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", "corpus", err)
	}

	return a.ayahs, nil
}

func parseRef(surah, ayah string) (quran.AyahRef, error) {
	s, err := strconv.Atoi(strings.TrimSpace(surah))
	if err != nil {
		return quran.AyahRef{}, errors.Wrapf(err, "invalid surah number %q", surah)
	}
	n, err := strconv.Atoi(strings.TrimSpace(ayah))
	if err != nil {
		return quran.AyahRef{}, errors.Wrapf(err, "invalid ayah number %q", ayah)
	}
	ref := quran.Ref(s, n)
	if !ref.Valid() {
		return quran.AyahRef{}, errors.NewValidation("ayah", "reference out of range: "+ref.String())
	}
	return ref, nil
}

// assembler appends ayahs in file order, assigning each its position within
// its surah and rejecting input that is not strictly ascending.
type assembler struct {
	ayahs    []quran.Ayah
	position int
}

func (a *assembler) add(ref quran.AyahRef, text string) error {
	if n := len(a.ayahs); n > 0 {
		last := a.ayahs[n-1].Ref
		if ref.Compare(last) <= 0 {
			return errors.NewIntegrity("corpus order", "ayah %s follows %s", ref, last)
		}
		if ref.Surah == last.Surah {
			a.position++
		} else {
			a.position = 0
		}
	}

	a.ayahs = append(a.ayahs, quran.Ayah{
		Ref:      ref,
		Text:     strings.TrimSpace(text),
		Position: a.position,
	})
	return nil
}
