package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	apperrors "github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

const sampleCorpus = `# Tanzil simple text
1|1|بسم الله الرحمن الرحيم
1|2|الحمد لله رب العالمين

1|3|الرحمن الرحيم
2|1|الم
2|2|ذلك الكتاب لا ريب فيه
`

func createTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	ayahs, err := Parse(strings.NewReader(sampleCorpus))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(ayahs) != 5 {
		t.Fatalf("Parse() returned %d ayahs, want 5", len(ayahs))
	}

	want := []struct {
		ref      string
		position int
		text     string
	}{
		{"1:1", 0, "بسم الله الرحمن الرحيم"},
		{"1:2", 1, "الحمد لله رب العالمين"},
		{"1:3", 2, "الرحمن الرحيم"},
		{"2:1", 0, "الم"},
		{"2:2", 1, "ذلك الكتاب لا ريب فيه"},
	}
	for i, w := range want {
		got := ayahs[i]
		if got.Ref.String() != w.ref || got.Position != w.position || got.Text != w.text {
			t.Errorf("ayahs[%d] = {%s %d %q}, want {%s %d %q}",
				i, got.Ref, got.Position, got.Text, w.ref, w.position, w.text)
		}
	}
}

func TestParseCRLF(t *testing.T) {
	ayahs, err := Parse(strings.NewReader("1|1|a b\r\n1|2|c\r\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if ayahs[0].Text != "a b" || ayahs[1].Text != "c" {
		t.Errorf("Parse() texts = %q, %q", ayahs[0].Text, ayahs[1].Text)
	}
}

func TestParseEmptyInput(t *testing.T) {
	ayahs, err := Parse(strings.NewReader("# only a comment\n\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(ayahs) != 0 {
		t.Errorf("Parse() = %d ayahs, want 0", len(ayahs))
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"missing text field", "1|1|a\n1|2\n", 2},
		{"extra field", "1|1|a|b\n", 1},
		{"no separators", "hello\n", 1},
		{"non-numeric surah", "x|1|a\n", 1},
		{"non-numeric ayah", "1|y|a\n", 1},
		{"surah out of range", "115|1|a\n", 1},
		{"ayah zero", "1|0|a\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			var pe *apperrors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse() error = %v, want ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("ParseError.Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Error("malformed corpus should be ErrInvalidInput")
			}
		})
	}
}

func TestParseRejectsOutOfOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate ref", "1|1|a\n1|1|b\n"},
		{"descending ayah", "1|2|a\n1|1|b\n"},
		{"surah revisited", "1|1|a\n2|1|b\n1|2|c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, apperrors.ErrIntegrity) {
				t.Errorf("Parse() error = %v, want ErrIntegrity", err)
			}
		})
	}
}

func TestParseKeepsEmptyText(t *testing.T) {
	ayahs, err := Parse(strings.NewReader("1|1|\n1|2|a\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(ayahs) != 2 || ayahs[0].Text != "" {
		t.Errorf("Parse() = %+v", ayahs)
	}
}

const sampleXML = `<?xml version="1.0" encoding="utf-8" ?>
<quran>
  <sura index="1" name="الفاتحة">
    <aya index="1" text="بسم الله الرحمن الرحيم"/>
    <aya index="2" text="الحمد لله رب العالمين"/>
  </sura>
  <sura index="2" name="البقرة">
    <aya index="1" text="الم" bismillah="بسم الله الرحمن الرحيم"/>
  </sura>
</quran>
`

func TestParseXML(t *testing.T) {
	ayahs, names, err := ParseXML(strings.NewReader(sampleXML))
	if err != nil {
		t.Fatalf("ParseXML() error: %v", err)
	}
	if len(ayahs) != 3 {
		t.Fatalf("ParseXML() = %d ayahs, want 3", len(ayahs))
	}
	if ayahs[2].Ref != quran.Ref(2, 1) || ayahs[2].Text != "الم" || ayahs[2].Position != 0 {
		t.Errorf("ayahs[2] = %+v", ayahs[2])
	}
	if ayahs[1].Position != 1 {
		t.Errorf("ayahs[1].Position = %d, want 1", ayahs[1].Position)
	}
	if names[2] != "البقرة" {
		t.Errorf("names[2] = %q", names[2])
	}
}

func TestParseXMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not xml", "<quran><sura"},
		{"no ayas", "<quran></quran>"},
		{"bad sura index", `<quran><sura index="x"><aya index="1" text="a"/></sura></quran>`},
		{"bad aya index", `<quran><sura index="1"><aya index="" text="a"/></sura></quran>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseXML(strings.NewReader(tt.input)); err == nil {
				t.Error("ParseXML() expected error")
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		path := createTestFile(t, dir, "quran.txt", []byte(sampleCorpus))
		ayahs, names, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error: %v", err)
		}
		if len(ayahs) != 5 || names != nil {
			t.Errorf("ReadFile() = %d ayahs, names %v", len(ayahs), names)
		}
	})

	t.Run("xz compressed text", func(t *testing.T) {
		var buf strings.Builder
		w, err := xz.NewWriter(&buf)
		if err != nil {
			t.Fatalf("xz.NewWriter: %v", err)
		}
		if _, err := w.Write([]byte(sampleCorpus)); err != nil {
			t.Fatalf("xz write: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("xz close: %v", err)
		}

		path := createTestFile(t, dir, "quran.txt.xz", []byte(buf.String()))
		ayahs, _, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error: %v", err)
		}
		if len(ayahs) != 5 {
			t.Errorf("ReadFile() = %d ayahs, want 5", len(ayahs))
		}
	})

	t.Run("xml", func(t *testing.T) {
		path := createTestFile(t, dir, "quran-simple.xml", []byte(sampleXML))
		ayahs, names, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error: %v", err)
		}
		if len(ayahs) != 3 || len(names) != 2 {
			t.Errorf("ReadFile() = %d ayahs, %d names", len(ayahs), len(names))
		}
	})

	t.Run("parse error carries path", func(t *testing.T) {
		path := createTestFile(t, dir, "bad.txt", []byte("1|1\n"))
		_, _, err := ReadFile(path)
		var pe *apperrors.ParseError
		if !errors.As(err, &pe) || pe.Path != path {
			t.Errorf("ReadFile() error = %v, want ParseError with path", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ReadFile(filepath.Join(dir, "missing.txt"))
		var ioe *apperrors.IOError
		if !errors.As(err, &ioe) {
			t.Errorf("ReadFile() error = %v, want IOError", err)
		}
	})
}

func TestKind(t *testing.T) {
	tests := map[string]string{
		"quran.txt":        ".txt",
		"quran.TXT.xz":     ".txt",
		"quran-simple.xml": ".xml",
		"data/quran":       "",
	}
	for in, want := range tests {
		if got := Kind(in); got != want {
			t.Errorf("Kind(%q) = %q, want %q", in, got, want)
		}
	}
}

func fullNames() string {
	var sb strings.Builder
	sb.WriteString("# surah,name\n")
	for s := 1; s <= quran.SurahCount; s++ {
		sb.WriteString(strconv.Itoa(s) + ", Surah " + strconv.Itoa(s) + "\n")
	}
	return sb.String()
}

func TestParseNames(t *testing.T) {
	names, err := ParseNames(strings.NewReader(fullNames()))
	if err != nil {
		t.Fatalf("ParseNames() error: %v", err)
	}
	if err := names.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	if got, ok := names.Lookup(2); !ok || got != "Surah 2" {
		t.Errorf("Lookup(2) = %q, %v", got, ok)
	}
	if got, ok := names.Find("Surah 114"); !ok || got != 114 {
		t.Errorf("Find(Surah 114) = %d, %v", got, ok)
	}
	if _, ok := names.Find("Nope"); ok {
		t.Error("Find(Nope) should fail")
	}
}

func TestParseNamesErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{"wrong field count", "1,Al-Fatihah\n2\n", 2},
		{"bad number", "1,Al-Fatihah\nx,Al-Baqarah\n", 2},
		{"out of range", "115,Extra\n", 1},
		{"duplicate", "1,A\n1,B\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNames(strings.NewReader(tt.input))
			var pe *apperrors.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ParseNames() error = %v, want ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("ParseError.Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}

func TestNamesValidateIncomplete(t *testing.T) {
	names := Names{1: "Al-Fatihah"}
	if err := names.Validate(); !errors.Is(err, apperrors.ErrIntegrity) {
		t.Errorf("Validate() = %v, want ErrIntegrity", err)
	}
}

func TestReadNamesFile(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "surah_names.csv", []byte(fullNames()))
	names, err := ReadNamesFile(path)
	if err != nil {
		t.Fatalf("ReadNamesFile() error: %v", err)
	}
	if len(names) != quran.SurahCount {
		t.Errorf("ReadNamesFile() = %d names", len(names))
	}

	bad := createTestFile(t, dir, "bad.csv", []byte("x,y\n"))
	_, err = ReadNamesFile(bad)
	var pe *apperrors.ParseError
	if !errors.As(err, &pe) || pe.Path != bad {
		t.Errorf("ReadNamesFile() error = %v, want ParseError with path", err)
	}
}
