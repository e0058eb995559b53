package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
)

// Source is an opened input file with transparent xz decompression.
type Source struct {
	io.Reader
	file *os.File
}

// Close closes the underlying file.
func (s *Source) Close() error {
	return s.file.Close()
}

// Open opens path for reading, decompressing it when the name ends in ".xz".
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}

	var reader io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errors.NewIO("decompress", path, err)
		}
		reader = xzr
	}

	return &Source{Reader: reader, file: f}, nil
}

// Kind returns the logical extension of path with any ".xz" suffix removed.
func Kind(path string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".xz")))
}

// ReadFile loads a corpus from disk. ".xml" files are read as Tanzil XML;
// everything else is read as pipe-delimited text. Names is non-nil only for
// XML input that carries sura names.
func ReadFile(path string) ([]quran.Ayah, Names, error) {
	src, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	var (
		ayahs []quran.Ayah
		names Names
	)
	switch Kind(path) {
	case ".xml":
		ayahs, names, err = ParseXML(src)
	default:
		ayahs, err = Parse(src)
	}
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, nil, err
	}
	if len(names) == 0 {
		names = nil
	}
	return ayahs, names, nil
}

// ReadNamesFile loads a surah-name table from disk.
func ReadNamesFile(path string) (Names, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	names, err := ParseNames(src)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return names, nil
}
