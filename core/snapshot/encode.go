package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/FocuswithJustin/GuessTheSurah/core/corpus"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// field is one key/value pair of an ordered JSON object.
type field struct {
	key   string
	value any
}

// artifact is an encoded table ready to be written.
type artifact struct {
	name string
	data []byte
}

// encodeObject writes fields as a JSON object in the given order, indented
// by two spaces, with HTML escaping off.
func encodeObject(fields []field) ([]byte, error) {
	var raw bytes.Buffer
	raw.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			raw.WriteByte(',')
		}
		if err := encodeValue(&raw, f.key); err != nil {
			return nil, err
		}
		raw.WriteByte(':')
		if err := encodeValue(&raw, f.value); err != nil {
			return nil, fmt.Errorf("key %q: %w", f.key, err)
		}
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}

func sortedRefs[V any](m map[quran.AyahRef]V) []quran.AyahRef {
	refs := make([]quran.AyahRef, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// encode renders every table of d in write order.
func (d *Documents) encode() ([]artifact, error) {
	fields := make(map[string][]field)

	for _, r := range d.JuzRanges {
		fields[JuzRangesFile] = append(fields[JuzRangesFile],
			field{strconv.Itoa(r.Juz), [2]quran.AyahRef{r.Start, r.End}})
	}
	for _, ref := range sortedRefs(d.Previous) {
		fields[PreviousFile] = append(fields[PreviousFile], field{ref.String(), d.Previous[ref]})
	}
	for s := 1; s <= quran.SurahCount; s++ {
		key := strconv.Itoa(s)
		fields[SurahAyahsFile] = append(fields[SurahAyahsFile], field{key, orEmpty(d.SurahAyahs[s])})
		fields[SurahPhrasesFile] = append(fields[SurahPhrasesFile], field{key, orEmpty(d.SurahPhrases[s])})
	}
	for _, ref := range sortedRefs(d.Text) {
		fields[TextFile] = append(fields[TextFile], field{ref.String(), d.Text[ref]})
	}

	phrases := make([]string, 0, len(d.Owners))
	for p := range d.Owners {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	for _, p := range phrases {
		fields[OwnersFile] = append(fields[OwnersFile], field{p, d.Owners[p]})
	}

	names := append([]string(nil), requiredFiles...)
	if d.Names != nil {
		fields[NamesFile] = nameFields(d.Names)
		names = append(names, NamesFile)
	}
	if d.ArabicNames != nil {
		fields[ArabicNamesFile] = nameFields(d.ArabicNames)
		names = append(names, ArabicNamesFile)
	}

	out := make([]artifact, 0, len(names))
	for _, name := range names {
		data, err := encodeObject(fields[name])
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		out = append(out, artifact{name: name, data: data})
	}
	return out, nil
}

func nameFields(n corpus.Names) []field {
	nums := make([]int, 0, len(n))
	for s := range n {
		nums = append(nums, s)
	}
	sort.Ints(nums)

	out := make([]field, 0, len(nums))
	for _, s := range nums {
		out = append(out, field{strconv.Itoa(s), n[s]})
	}
	return out
}
