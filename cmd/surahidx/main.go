// Command surahidx builds and queries the unique-phrase index used by the
// "guess the surah" game.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/GuessTheSurah/core/arabic"
	"github.com/FocuswithJustin/GuessTheSurah/core/corpus"
	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/index"
	"github.com/FocuswithJustin/GuessTheSurah/core/quiz"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
	"github.com/FocuswithJustin/GuessTheSurah/core/snapshot"
	"github.com/FocuswithJustin/GuessTheSurah/core/sqlite"
	"github.com/FocuswithJustin/GuessTheSurah/internal/logging"
	"github.com/FocuswithJustin/GuessTheSurah/internal/pipeline"
)

const version = "0.1.0"

// CLI defines the command-line interface for surahidx.
type CLI struct {
	// Global flags
	Config    kong.ConfigFlag `help:"JSON file with flag defaults"`
	LogLevel  string          `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	LogFormat string          `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json"`

	Build   BuildCmd   `cmd:"" help:"Build the phrase index from a corpus"`
	Verify  VerifyCmd  `cmd:"" help:"Verify a built index against its manifest"`
	Locate  LocateCmd  `cmd:"" help:"Find the ayah that owns a phrase"`
	Phrases PhrasesCmd `cmd:"" help:"List the unique phrases of a surah or juz"`
	Quiz    QuizCmd    `cmd:"" help:"Play one round of guess the surah"`
	Rasm    RasmCmd    `cmd:"" help:"Convert a corpus to undotted rasm or strip its tashkeel"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply configures logging once flags are parsed.
func (c *CLI) AfterApply(app *kong.Context) error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(app.Stderr, level, format)
	return nil
}

// BuildCmd builds an index directory from a corpus.
type BuildCmd struct {
	Corpus       string `arg:"" help:"Corpus file (surah|ayah|text or Tanzil XML, optionally .xz)" type:"existingfile"`
	Out          string `short:"o" help:"Output directory" default:"out" type:"path"`
	Boundaries   string `help:"Juz boundary file (defaults to the Hafs division)" type:"existingfile"`
	Names        string `help:"CSV of surah display names" type:"existingfile"`
	ArabicNames  string `name:"arabic-names" help:"CSV of Arabic surah names" type:"existingfile"`
	SQLite       string `name:"sqlite" help:"Also export the index to this SQLite database" type:"path"`
	MinWords     int    `name:"min-words" help:"Shortest phrase considered" default:"1"`
	Compress     bool   `help:"Write xz-compressed tables"`
	KeepBasmalah bool   `name:"keep-basmalah" help:"Do not strip a leading basmalah from the first ayah of a surah"`
}

func (c *BuildCmd) config() pipeline.Config {
	return pipeline.Config{
		CorpusPath:      c.Corpus,
		BoundariesPath:  c.Boundaries,
		NamesPath:       c.Names,
		ArabicNamesPath: c.ArabicNames,
		OutDir:          c.Out,
		SQLitePath:      c.SQLite,
		MinWords:        c.MinWords,
		Compress:        c.Compress,
		StripBasmalah:   !c.KeepBasmalah,
	}
}

func (c *BuildCmd) Run(app *kong.Context, ctx context.Context) error {
	res, err := pipeline.Run(ctx, c.config())
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Stdout, "Index: %s\n", c.Out)
	fmt.Fprintf(app.Stdout, "  Ayahs:   %d (%d surahs)\n", res.Stats.Ayahs, res.Stats.Surahs)
	fmt.Fprintf(app.Stdout, "  Phrases: %d across %d ayahs\n", res.Stats.Phrases, res.Stats.AyahsWithPhrases)
	fmt.Fprintf(app.Stdout, "  Tables:  %d\n", len(res.Manifest.Artifacts))
	fmt.Fprintf(app.Stdout, "  Took:    %s\n", res.Duration.Round(time.Millisecond))
	return nil
}

// VerifyCmd checks digests and restores the index to confirm it is consistent.
type VerifyCmd struct {
	Dir string `arg:"" help:"Index directory" type:"existingdir"`
}

func (c *VerifyCmd) Run(app *kong.Context) error {
	m, err := snapshot.Verify(c.Dir)
	if err != nil {
		return err
	}
	if _, _, err := loadIndex(c.Dir); err != nil {
		return err
	}

	fmt.Fprintf(app.Stdout, "Index: %s\n", c.Dir)
	fmt.Fprintf(app.Stdout, "  Format:     %d\n", m.FormatVersion)
	fmt.Fprintf(app.Stdout, "  Min words:  %d\n", m.MinWords)
	fmt.Fprintf(app.Stdout, "  Compressed: %v\n", m.Compressed)
	fmt.Fprintf(app.Stdout, "  Tables:     %d verified\n", len(m.Artifacts))
	fmt.Fprintln(app.Stdout, "OK")
	return nil
}

// indexFlag is shared by the query commands.
type indexFlag struct {
	Index string `short:"i" help:"Index directory" default:"out" type:"path"`
}

func loadIndex(dir string) (*index.Index, *snapshot.Documents, error) {
	docs, err := snapshot.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	idx, err := docs.Index()
	if err != nil {
		return nil, nil, err
	}
	return idx, docs, nil
}

// surahLabel formats a surah number with whichever names the index carries.
func surahLabel(docs *snapshot.Documents, s int) string {
	label := strconv.Itoa(s)
	if name, ok := docs.Names.Lookup(s); ok {
		label += " " + name
	}
	if name, ok := docs.ArabicNames.Lookup(s); ok {
		label += " (" + name + ")"
	}
	return label
}

// LocateCmd prints the owner of a phrase.
type LocateCmd struct {
	indexFlag
	Phrase []string `arg:"" help:"Phrase words"`
}

func (c *LocateCmd) Run(app *kong.Context) error {
	idx, docs, err := loadIndex(c.Index)
	if err != nil {
		return err
	}
	phrase := strings.Join(c.Phrase, " ")
	ref, ok := idx.Owner(phrase)
	if !ok {
		return errors.NewNotFound("unique phrase", phrase)
	}
	j, _ := idx.Juz(ref)
	fmt.Fprintf(app.Stdout, "%s\tjuz %d\tsurah %s\n", ref, j, surahLabel(docs, ref.Surah))
	return nil
}

// PhrasesCmd lists phrases by surah, or by ayah within a juz.
type PhrasesCmd struct {
	indexFlag
	Surah int `arg:"" optional:"" help:"Surah number"`
	Juz   int `help:"List the phrases of a juz instead"`
}

func (c *PhrasesCmd) Run(app *kong.Context) error {
	if (c.Surah == 0) == (c.Juz == 0) {
		return errors.NewValidation("phrases", "give exactly one of a surah number or --juz")
	}
	idx, _, err := loadIndex(c.Index)
	if err != nil {
		return err
	}

	if c.Juz != 0 {
		byAyah, ok := idx.JuzPhrases(c.Juz)
		if !ok {
			return errors.NewValidation("juz", fmt.Sprintf("%d is not within 1-%d", c.Juz, quran.JuzCount))
		}
		for _, ref := range idx.Refs() {
			if phrases, ok := byAyah[ref]; ok {
				fmt.Fprintf(app.Stdout, "%s\t%s\n", ref, strings.Join(phrases, " | "))
			}
		}
		return nil
	}

	phrases, ok := idx.SurahPhrases(c.Surah)
	if !ok {
		return errors.NewValidation("surah", fmt.Sprintf("%d is not within 1-%d", c.Surah, quran.SurahCount))
	}
	for _, p := range phrases {
		ref, _ := idx.Owner(p)
		fmt.Fprintf(app.Stdout, "%s\t%s\n", ref, p)
	}
	return nil
}

// QuizCmd plays one interactive round on stdin.
type QuizCmd struct {
	indexFlag
	Start int    `help:"First surah in range (default 1, or 100 in easy mode)"`
	End   int    `help:"Last surah in range" default:"114"`
	Juz   int    `help:"Draw from this juz instead of a surah range"`
	Easy  bool   `help:"Show whole ayahs instead of phrases"`
	Seed  uint64 `help:"Random seed (0 picks one from the clock)"`
}

func (c *QuizCmd) newRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

func (c *QuizCmd) Run(app *kong.Context, in io.Reader) error {
	idx, docs, err := loadIndex(c.Index)
	if err != nil {
		return err
	}

	r := quiz.DefaultRange(c.Easy)
	if c.Start != 0 {
		r.Start = c.Start
	}
	r.End = c.End

	rng := c.newRand()
	var q quiz.Question
	switch {
	case c.Juz != 0:
		q, err = quiz.RandomJuzPhrase(idx, rng, c.Juz)
	case c.Easy:
		q, err = quiz.RandomAyah(idx, rng, r)
	default:
		q, err = quiz.RandomPhrase(idx, rng, r)
	}
	if err != nil {
		return err
	}
	return play(idx, docs, q, in, app.Stdout)
}

// play runs the guess loop: an empty line or "h" expands the hint, a
// number or surah name is a guess, "q" gives up.
func play(idx *index.Index, docs *snapshot.Documents, q quiz.Question, in io.Reader, out io.Writer) error {
	h, err := quiz.NewHint(idx, q)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, h.Text)

	answer := func() {
		fmt.Fprintf(out, "Answer: %s, surah %s\n", q.Ref, surahLabel(docs, q.Ref.Surah))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			answer()
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "", "h", "hint":
			expand := quiz.AddWord
			if q.Easy {
				expand = quiz.PrefixAyah
			}
			if h, err = expand(idx, h); errors.Is(err, quiz.ErrStartOfSurah) {
				fmt.Fprintln(out, "(already at the start of the surah)")
				continue
			} else if err != nil {
				return err
			}
			fmt.Fprintln(out, h.Text)
			continue
		case "q", "quit":
			answer()
			return nil
		}

		surah, ok := parseSurah(docs, input)
		if !ok {
			fmt.Fprintf(out, "Unknown surah %q\n", input)
			continue
		}
		correct, err := quiz.CheckGuess(q, surah)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if correct {
			fmt.Fprintf(out, "Correct! %s\n", q.Ref)
			return nil
		}
		fmt.Fprintln(out, "Wrong, try again")
	}
}

func parseSurah(docs *snapshot.Documents, s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if n, ok := docs.Names.Find(s); ok {
		return n, true
	}
	return docs.ArabicNames.Find(s)
}

// RasmCmd rewrites a corpus file line by line.
type RasmCmd struct {
	Input        string `arg:"" help:"Corpus file (optionally .xz)" type:"existingfile"`
	Out          string `short:"o" help:"Output file (default stdout)" type:"path"`
	TashkeelOnly bool   `name:"tashkeel-only" help:"Only remove tashkeel, keep dotted letters"`
}

func (c *RasmCmd) Run(app *kong.Context, ctx context.Context) (err error) {
	src, err := corpus.Open(c.Input)
	if err != nil {
		return err
	}
	defer src.Close()

	convert := arabic.ToRasm
	if c.TashkeelOnly {
		convert = arabic.StripTashkeel
	}

	var w io.Writer = app.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return errors.NewIO("create", c.Out, err)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = errors.NewIO("close", c.Out, cerr)
			}
		}()
		w = f
	}

	n, err := arabic.ConvertCorpus(src, w, convert)
	if err != nil {
		return err
	}
	logging.InfoContext(ctx, "corpus converted", "input", c.Input, "lines", n)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *kong.Context) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(app.Stdout, "surahidx %s (sqlite driver: %s, %s)\n", version, info.DriverType, info.Package)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("surahidx"),
		kong.Description("Guess The Surah - unique phrase index builder"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Configuration(kong.JSON, "surahidx.json", "~/.config/surahidx.json"),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(io.Reader(os.Stdin), (*io.Reader)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI
	parser, err := newParser(&cli, kong.BindTo(sigctx, (*context.Context)(nil)))
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
