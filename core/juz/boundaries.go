package juz

import (
	"bufio"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// boundaryGrammar parses one boundary-table line: "3,2:253-3:92".
//
//nolint:govet // participle grammar tags are not standard struct tags
type boundaryGrammar struct {
	Juz   int      `@Int ","`
	Start refGroup `@@ "-"`
	End   refGroup `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGroup struct {
	Surah int `@Int ":"`
	Ayah  int `@Int`
}

var boundaryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,:\-]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var boundaryParser = participle.MustBuild[boundaryGrammar](
	participle.Lexer(boundaryLexer),
	participle.Elide("Whitespace"),
)

// ParseBoundary parses a single boundary line into a Range.
func ParseBoundary(line string) (Range, error) {
	parsed, err := boundaryParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return Range{}, err
	}
	return Range{
		Juz:   parsed.Juz,
		Start: quran.Ref(parsed.Start.Surah, parsed.Start.Ayah),
		End:   quran.Ref(parsed.End.Surah, parsed.End.Ayah),
	}, nil
}

// ParseBoundaries reads a boundary table (one juz per line, blank lines and
// '#' comments ignored) and builds a validated Table.
func ParseBoundaries(r io.Reader) (*Table, error) {
	var ranges []Range

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rng, err := ParseBoundary(line)
		if err != nil {
			return nil, errors.NewParseLine("juz boundaries", lineNo, err.Error())
		}
		ranges = append(ranges, rng)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewIO("read", "juz boundaries", err)
	}

	return New(ranges)
}

// standardBoundaries is the Hafs juz division as distributed with Tanzil.
const standardBoundaries = `1,1:1-2:141
2,2:142-2:252
3,2:253-3:92
4,3:93-4:23
5,4:24-4:147
6,4:148-5:81
7,5:82-6:110
8,6:111-7:87
9,7:88-8:40
10,8:41-9:92
11,9:93-11:5
12,11:6-12:52
13,12:53-14:52
14,15:1-16:128
15,17:1-18:74
16,18:75-20:135
17,21:1-22:78
18,23:1-25:20
19,25:21-27:55
20,27:56-29:45
21,29:46-33:30
22,33:31-36:27
23,36:28-39:31
24,39:32-41:46
25,41:47-45:37
26,46:1-51:30
27,51:31-57:29
28,58:1-66:12
29,67:1-77:50
30,78:1-114:6
`

// Standard returns the built-in Hafs juz table.
func Standard() *Table {
	t, err := ParseBoundaries(strings.NewReader(standardBoundaries))
	if err != nil {
		panic("juz: built-in boundary table is invalid: " + err.Error())
	}
	return t
}
