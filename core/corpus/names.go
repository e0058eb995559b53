package corpus

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Names maps surah numbers to display names. The English and Arabic tables
// share the same numbering.
type Names map[int]string

// ParseNames reads "surah_num,name" rows. Lines starting with '#' are comments.
func ParseNames(r io.Reader) (Names, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	names := make(Names)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			pe := &errors.ParseError{Format: "surah names", Message: err.Error(), Err: errors.ErrInvalidInput}
			if perr, ok := err.(*csv.ParseError); ok {
				pe.Line = perr.Line
			}
			return nil, pe
		}

		num, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil || num < 1 || num > quran.SurahCount {
			line, _ := cr.FieldPos(0)
			return nil, errors.NewParseLine("surah names", line, "invalid surah number "+strconv.Quote(record[0]))
		}
		if _, dup := names[num]; dup {
			line, _ := cr.FieldPos(0)
			return nil, errors.NewParseLine("surah names", line, "duplicate surah "+strconv.Itoa(num))
		}
		names[num] = strings.TrimSpace(record[1])
	}

	return names, nil
}

// Validate checks that every surah 1..114 has a non-empty name.
func (n Names) Validate() error {
	for s := 1; s <= quran.SurahCount; s++ {
		if strings.TrimSpace(n[s]) == "" {
			return errors.NewIntegrity("surah names", "missing name for surah %d", s)
		}
	}
	if len(n) != quran.SurahCount {
		return errors.NewIntegrity("surah names", "expected %d names, got %d", quran.SurahCount, len(n))
	}
	return nil
}

// Lookup returns the name of surah s and whether it is known.
func (n Names) Lookup(s int) (string, bool) {
	name, ok := n[s]
	return name, ok
}

// Find returns the surah number whose name equals name.
func (n Names) Find(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for num, candidate := range n {
		if candidate == name {
			return num, true
		}
	}
	return 0, false
}
