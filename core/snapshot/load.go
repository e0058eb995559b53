package snapshot

import (
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"strconv"

	"github.com/FocuswithJustin/GuessTheSurah/core/cas"
	"github.com/FocuswithJustin/GuessTheSurah/core/corpus"
	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
	"github.com/FocuswithJustin/GuessTheSurah/internal/validation"
)

// Verify re-hashes every artifact listed in the manifest of dir.
func Verify(dir string) (*Manifest, error) {
	m, _, err := readVerified(dir, false)
	return m, err
}

// Load reads and verifies the snapshot in dir.
func Load(dir string) (*Documents, error) {
	m, raw, err := readVerified(dir, true)
	if err != nil {
		return nil, err
	}

	d := &Documents{MinWords: m.MinWords, StripPrefix: m.StripPrefix, Stats: m.Stats}

	var ranges map[int][2]quran.AyahRef
	if err := decode(dir, JuzRangesFile, raw, &ranges); err != nil {
		return nil, err
	}
	for j, r := range ranges {
		d.JuzRanges = append(d.JuzRanges, juz.Range{Juz: j, Start: r[0], End: r[1]})
	}
	sort.Slice(d.JuzRanges, func(i, j int) bool { return d.JuzRanges[i].Juz < d.JuzRanges[j].Juz })

	targets := []struct {
		name string
		v    any
	}{
		{PreviousFile, &d.Previous},
		{SurahAyahsFile, &d.SurahAyahs},
		{TextFile, &d.Text},
		{SurahPhrasesFile, &d.SurahPhrases},
		{OwnersFile, &d.Owners},
	}
	for _, t := range targets {
		if err := decode(dir, t.name, raw, t.v); err != nil {
			return nil, err
		}
	}

	if _, ok := raw[NamesFile]; ok {
		if d.Names, err = decodeNames(dir, NamesFile, raw); err != nil {
			return nil, err
		}
	}
	if _, ok := raw[ArabicNamesFile]; ok {
		if d.ArabicNames, err = decodeNames(dir, ArabicNamesFile, raw); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// readVerified reads the manifest and checks every artifact it lists
// against its recorded digest. The artifact contents are returned only when
// keep is set.
func readVerified(dir string, keep bool) (*Manifest, map[string][]byte, error) {
	m, err := readManifest(dir)
	if err != nil {
		return nil, nil, err
	}

	for _, name := range requiredFiles {
		if _, ok := m.Artifacts[name]; !ok {
			return nil, nil, errors.NewIntegrity(ManifestFile, "artifact %s is not listed", name)
		}
	}

	names := make([]string, 0, len(m.Artifacts))
	for name := range m.Artifacts {
		if err := checkArtifactName(name); err != nil {
			return nil, nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	raw := make(map[string][]byte, len(names))
	for _, name := range names {
		path, err := artifactPath(dir, name, m.Compressed)
		if err != nil {
			return nil, nil, err
		}
		got, data, err := digestFile(path, keep)
		if err != nil {
			return nil, nil, err
		}
		if err := m.Artifacts[name].Check(got); err != nil {
			return nil, nil, errors.NewIntegrity(name, "%v", err)
		}
		if keep {
			raw[name] = data
		}
	}
	return m, raw, nil
}

// checkArtifactName rejects manifest entries that are not snapshot tables.
func checkArtifactName(name string) error {
	if err := validation.ValidateFilename(name); err != nil {
		return errors.NewIntegrity(ManifestFile, "artifact %q: %v", name, err)
	}
	if !slices.Contains(knownFiles, name) {
		return errors.NewIntegrity(ManifestFile, "unknown artifact %q", name)
	}
	return nil
}

func readManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewParse("manifest", path, err.Error())
	}
	if m.FormatVersion != FormatVersion {
		return nil, errors.NewUnsupported("snapshot format", "version "+strconv.Itoa(m.FormatVersion))
	}
	return &m, nil
}

func artifactPath(dir, name string, compressed bool) (string, error) {
	if compressed {
		name += CompressedSuffix
	}
	rel, err := validation.SanitizePath(dir, name)
	if err != nil {
		return "", errors.NewIntegrity(ManifestFile, "artifact %q: %v", name, err)
	}
	return filepath.Join(dir, rel), nil
}

// digestFile hashes path while reading it, decompressing ".xz" files. The
// content is returned when keep is set; otherwise it is streamed through
// the hashes only.
func digestFile(path string, keep bool) (cas.Digest, []byte, error) {
	src, err := corpus.Open(path)
	if err != nil {
		return cas.Digest{}, nil, err
	}
	defer src.Close()

	if !keep {
		d, err := cas.SumReader(src)
		if err != nil {
			return cas.Digest{}, nil, errors.NewIO("read", path, err)
		}
		return d, nil, nil
	}

	h := cas.NewHasher()
	data, err := io.ReadAll(io.TeeReader(src, h))
	if err != nil {
		return cas.Digest{}, nil, errors.NewIO("read", path, err)
	}
	return h.Digest(), data, nil
}

// readAll reads path, decompressing ".xz" files.
func readAll(path string) ([]byte, error) {
	src, err := corpus.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

func decode(dir, name string, raw map[string][]byte, v any) error {
	if err := json.Unmarshal(raw[name], v); err != nil {
		return errors.NewParse("JSON", filepath.Join(dir, name), err.Error())
	}
	return nil
}

func decodeNames(dir, name string, raw map[string][]byte) (corpus.Names, error) {
	var names corpus.Names
	if err := decode(dir, name, raw, &names); err != nil {
		return nil, err
	}
	if err := names.Validate(); err != nil {
		return nil, err
	}
	return names, nil
}
