package snapshot

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/GuessTheSurah/core/cas"
	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/index"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// CompressedSuffix is appended to artifact names when writing with xz.
const CompressedSuffix = ".xz"

// Manifest describes a snapshot directory. Digests are over the
// uncompressed JSON bytes.
type Manifest struct {
	FormatVersion int                   `json:"format_version"`
	MinWords      int                   `json:"min_words"`
	StripPrefix   string                `json:"strip_prefix"`
	Compressed    bool                  `json:"compressed"`
	Stats         index.Stats           `json:"stats"`
	Artifacts     map[string]cas.Digest `json:"artifacts"`
}

// WriteOptions controls how a snapshot is written.
type WriteOptions struct {
	// Compress writes each table as <name>.json.xz.
	Compress bool
}

type file struct {
	name string
	data []byte
}

// Write encodes d and places it in dir. All files are first written to a
// staging directory next to dir; nothing is touched in dir if encoding or
// staging fails. The manifest is moved in last.
func Write(dir string, d *Documents, opts WriteOptions) (*Manifest, error) {
	artifacts, err := d.encode()
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		FormatVersion: FormatVersion,
		MinWords:      d.MinWords,
		StripPrefix:   d.StripPrefix,
		Compressed:    opts.Compress,
		Stats:         d.Stats,
		Artifacts:     make(map[string]cas.Digest, len(artifacts)),
	}

	files := make([]file, 0, len(artifacts)+1)
	for _, a := range artifacts {
		m.Artifacts[a.name] = cas.Sum(a.data)
		f := file{name: a.name, data: a.data}
		if opts.Compress {
			if f.data, err = compress(a.data); err != nil {
				return nil, errors.Wrapf(err, "failed to compress %s", a.name)
			}
			f.name += CompressedSuffix
		}
		files = append(files, f)
	}

	manifest, err := encodeManifest(m)
	if err != nil {
		return nil, err
	}
	files = append(files, file{name: ManifestFile, data: manifest})

	if err := stage(dir, files); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeManifest(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, errors.Wrap(err, "failed to encode manifest")
	}
	return buf.Bytes(), nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stage writes files into a sibling staging directory and then moves them
// into dir. A missing dir is created by renaming the staging directory.
func stage(dir string, files []file) error {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return errors.NewIO("mkdir", parent, err)
	}

	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".staging-*")
	if err != nil {
		return errors.NewIO("mkdir", parent, err)
	}
	defer os.RemoveAll(tmp)

	for _, f := range files {
		path := filepath.Join(tmp, f.name)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return errors.NewIO("write", path, err)
		}
	}

	if _, err := os.Stat(dir); stderrors.Is(err, fs.ErrNotExist) {
		if err := os.Chmod(tmp, 0755); err != nil {
			return errors.NewIO("chmod", tmp, err)
		}
		if err := osRename(tmp, dir); err != nil {
			return errors.NewIO("rename", dir, err)
		}
		return nil
	}

	written := make(map[string]bool, len(files))
	for _, f := range files {
		written[f.name] = true
		if err := osRename(filepath.Join(tmp, f.name), filepath.Join(dir, f.name)); err != nil {
			return errors.NewIO("rename", filepath.Join(dir, f.name), err)
		}
	}
	return removeStale(dir, written)
}

// removeStale deletes artifact files a previous write left behind, such as
// the uncompressed tables after switching to xz.
func removeStale(dir string, written map[string]bool) error {
	for _, name := range knownFiles {
		for _, candidate := range []string{name, name + CompressedSuffix} {
			if written[candidate] {
				continue
			}
			path := filepath.Join(dir, candidate)
			if err := os.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
				return errors.NewIO("remove", path, err)
			}
		}
	}
	return nil
}
