package arabic

import (
	"bufio"
	"io"
	"strings"
)

// ConvertCorpus rewrites a pipe-delimited corpus, replacing the text field
// of each surah|ayah|text line with convert(text). Lines without exactly
// three fields are dropped. It returns the number of lines written.
func ConvertCorpus(r io.Reader, w io.Writer, convert func(string) string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	out := bufio.NewWriter(w)

	n := 0
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), "|")
		if len(parts) != 3 {
			continue
		}
		if _, err := out.WriteString(parts[0] + "|" + parts[1] + "|" + convert(parts[2]) + "\n"); err != nil {
			return n, err
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, out.Flush()
}
