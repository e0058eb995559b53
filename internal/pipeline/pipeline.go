// Package pipeline runs a complete index build: read the corpus and its
// side tables, resolve unique phrases, and write the lookup tables.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/FocuswithJustin/GuessTheSurah/core/corpus"
	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/index"
	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
	"github.com/FocuswithJustin/GuessTheSurah/core/snapshot"
	"github.com/FocuswithJustin/GuessTheSurah/internal/logging"
	"github.com/FocuswithJustin/GuessTheSurah/internal/validation"
)

// Config holds build configuration.
type Config struct {
	CorpusPath      string // pipe-delimited text or Tanzil XML, optionally .xz
	BoundariesPath  string // juz boundary file; empty uses the standard table
	NamesPath       string // "surah,name" CSV of display names (optional)
	ArabicNamesPath string // CSV of Arabic names (optional)
	OutDir          string
	SQLitePath      string // optional SQLite export
	MinWords        int
	Compress        bool
	StripBasmalah   bool
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		OutDir:        "out",
		MinWords:      1,
		StripBasmalah: true,
	}
}

// Validate checks paths and options without touching the filesystem.
func (c Config) Validate() error {
	if c.CorpusPath == "" {
		return errors.NewValidation("corpus", "a corpus file is required")
	}
	inputs := []struct{ field, path string }{
		{"corpus", c.CorpusPath},
		{"boundaries", c.BoundariesPath},
		{"names", c.NamesPath},
		{"arabic names", c.ArabicNamesPath},
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		if err := validation.ValidatePath(in.path); err != nil {
			return errors.NewValidation(in.field, err.Error())
		}
	}

	if err := validation.ValidateOutputPath(c.OutDir); err != nil {
		return errors.NewValidation("out", err.Error())
	}
	if c.SQLitePath != "" {
		if err := validation.ValidateOutputPath(c.SQLitePath); err != nil {
			return errors.NewValidation("sqlite", err.Error())
		}
	}
	if c.MinWords < 1 {
		return errors.NewValidation("min words", "must be at least 1")
	}
	return nil
}

func (c Config) indexOptions() index.Options {
	opts := index.Options{MinWords: c.MinWords}
	if c.StripBasmalah {
		opts.StripPrefix = quran.Basmalah
	}
	return opts
}

// Result summarises a finished build.
type Result struct {
	BuildID  string
	Manifest *snapshot.Manifest
	Stats    index.Stats
	Duration time.Duration
}

// Run executes a build. Outputs are only written once the index has been
// built and encoded; a failure before that leaves OutDir untouched.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buildID := logging.GetBuildID(ctx)
	if buildID == "" {
		buildID = logging.NewBuildID()
		ctx = logging.WithBuildID(ctx, buildID)
	}

	start := time.Now()
	logging.InfoContext(ctx, "build_started",
		"corpus", cfg.CorpusPath,
		"out", cfg.OutDir,
		"min_words", cfg.MinWords,
		"compress", cfg.Compress,
	)

	b := &build{cfg: cfg}
	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"load", b.load},
		{"resolve", b.resolve},
		{"write", b.write},
		{"sqlite", b.sqlite},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			logging.BuildFailed(ctx, st.name, err)
			return nil, err
		}
		t := time.Now()
		if err := st.fn(ctx); err != nil {
			logging.BuildFailed(ctx, st.name, err)
			return nil, err
		}
		logging.BuildStage(ctx, st.name, time.Since(t))
	}

	res := &Result{
		BuildID:  buildID,
		Manifest: b.manifest,
		Stats:    b.idx.Stats(),
		Duration: time.Since(start),
	}
	logging.InfoContext(ctx, "build_completed",
		"ayahs", res.Stats.Ayahs,
		"phrases", res.Stats.Phrases,
		"ayahs_with_phrases", res.Stats.AyahsWithPhrases,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// build carries state between stages.
type build struct {
	cfg Config

	ayahs       []quran.Ayah
	table       *juz.Table
	names       corpus.Names
	arabicNames corpus.Names

	idx      *index.Index
	docs     *snapshot.Documents
	manifest *snapshot.Manifest
}

func (b *build) load(ctx context.Context) error {
	if err := checkInput(b.cfg.CorpusPath); err != nil {
		return err
	}
	ayahs, xmlNames, err := corpus.ReadFile(b.cfg.CorpusPath)
	if err != nil {
		return err
	}
	b.ayahs = ayahs
	logging.DebugContext(ctx, "corpus_loaded", "path", b.cfg.CorpusPath, "ayahs", len(ayahs))

	if b.cfg.BoundariesPath == "" {
		b.table = juz.Standard()
	} else if b.table, err = readBoundaries(b.cfg.BoundariesPath); err != nil {
		return err
	}

	if b.cfg.NamesPath != "" {
		if b.names, err = readNames(b.cfg.NamesPath); err != nil {
			return err
		}
	}
	if b.cfg.ArabicNamesPath != "" {
		if b.arabicNames, err = readNames(b.cfg.ArabicNamesPath); err != nil {
			return err
		}
	} else if xmlNames != nil {
		// Tanzil XML carries the Arabic sura names.
		if verr := xmlNames.Validate(); verr == nil {
			b.arabicNames = xmlNames
		} else {
			logging.WarnContext(ctx, "ignoring incomplete sura names in corpus", "error", verr.Error())
		}
	}
	return nil
}

func (b *build) resolve(ctx context.Context) error {
	idx, err := index.Build(b.ayahs, b.table, b.cfg.indexOptions())
	if err != nil {
		return err
	}
	b.idx = idx
	return nil
}

func (b *build) write(ctx context.Context) error {
	docs, err := snapshot.FromIndex(b.idx, b.names, b.arabicNames)
	if err != nil {
		return err
	}
	m, err := snapshot.Write(b.cfg.OutDir, docs, snapshot.WriteOptions{Compress: b.cfg.Compress})
	if err != nil {
		return err
	}
	for name, d := range m.Artifacts {
		logging.ArtifactWritten(ctx, name, d.Size, d.SHA256)
	}
	b.docs = docs
	b.manifest = m
	return nil
}

func (b *build) sqlite(ctx context.Context) error {
	if b.cfg.SQLitePath == "" {
		return nil
	}
	return snapshot.WriteSQLite(ctx, b.cfg.SQLitePath, b.docs)
}

// checkInput rejects an input whose content does not match its extension,
// such as a database passed as the corpus.
func checkInput(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.NewIO("open", path, err)
	}
	defer f.Close()

	if _, err := validation.ValidateFileType(f, path); err != nil {
		return errors.NewValidation("input "+path, err.Error())
	}
	return nil
}

func readBoundaries(path string) (*juz.Table, error) {
	if err := checkInput(path); err != nil {
		return nil, err
	}
	src, err := corpus.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	table, err := juz.ParseBoundaries(src)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.Path == "" {
			pe.Path = path
		}
		return nil, err
	}
	return table, nil
}

func readNames(path string) (corpus.Names, error) {
	if err := checkInput(path); err != nil {
		return nil, err
	}
	return corpus.ReadNamesFile(path)
}
