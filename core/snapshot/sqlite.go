package snapshot

import (
	"context"
	"database/sql"
	"os"
	"sort"

	"github.com/FocuswithJustin/GuessTheSurah/core/errors"
	"github.com/FocuswithJustin/GuessTheSurah/core/juz"
	"github.com/FocuswithJustin/GuessTheSurah/core/phrase"
	"github.com/FocuswithJustin/GuessTheSurah/core/quran"
	"github.com/FocuswithJustin/GuessTheSurah/core/sqlite"
)

var schema = []string{
	`CREATE TABLE juz (
		juz INTEGER PRIMARY KEY,
		start_surah INTEGER NOT NULL,
		start_ayah INTEGER NOT NULL,
		end_surah INTEGER NOT NULL,
		end_ayah INTEGER NOT NULL
	)`,
	`CREATE TABLE surahs (
		surah INTEGER PRIMARY KEY,
		name TEXT,
		arabic_name TEXT
	)`,
	`CREATE TABLE ayahs (
		surah INTEGER NOT NULL,
		ayah INTEGER NOT NULL,
		position INTEGER NOT NULL,
		juz INTEGER NOT NULL REFERENCES juz(juz),
		prev_ayah INTEGER,
		text TEXT NOT NULL,
		PRIMARY KEY (surah, ayah)
	)`,
	`CREATE TABLE phrases (
		phrase TEXT PRIMARY KEY,
		surah INTEGER NOT NULL,
		ayah INTEGER NOT NULL,
		words INTEGER NOT NULL
	)`,
	`CREATE INDEX phrases_by_surah ON phrases (surah, ayah)`,
}

// WriteSQLite exports d as a SQLite database at path. The database is
// built under a temporary name and renamed over path on success.
func WriteSQLite(ctx context.Context, path string, d *Documents) error {
	table, err := juz.New(d.JuzRanges)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return errors.NewIO("remove", tmp, err)
	}

	db, err := sqlite.Open(tmp)
	if err != nil {
		return errors.NewIO("open", tmp, err)
	}
	err = sqlite.WithTx(ctx, db, func(tx *sql.Tx) error {
		return exportTables(ctx, tx, table, d)
	})
	if cerr := db.Close(); err == nil && cerr != nil {
		err = errors.NewIO("close", tmp, cerr)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}

	if err := osRename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

func exportTables(ctx context.Context, tx *sql.Tx, table *juz.Table, d *Documents) error {
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to create schema")
		}
	}

	for _, r := range table.Ranges() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO juz VALUES (?, ?, ?, ?, ?)`,
			r.Juz, r.Start.Surah, r.Start.Ayah, r.End.Surah, r.End.Ayah); err != nil {
			return errors.Wrapf(err, "failed to insert juz %d", r.Juz)
		}
	}

	for s := 1; s <= quran.SurahCount; s++ {
		if _, err := tx.ExecContext(ctx, `INSERT INTO surahs VALUES (?, ?, ?)`,
			s, nullName(d.Names, s), nullName(d.ArabicNames, s)); err != nil {
			return errors.Wrapf(err, "failed to insert surah %d", s)
		}
	}

	ayahStmt, err := tx.PrepareContext(ctx, `INSERT INTO ayahs VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare ayah insert")
	}
	defer ayahStmt.Close()
	for s := 1; s <= quran.SurahCount; s++ {
		for pos, ref := range d.SurahAyahs[s] {
			j, err := table.Locate(ref)
			if err != nil {
				return err
			}
			var prev sql.NullInt64
			if p, ok := d.Previous[ref]; ok {
				prev = sql.NullInt64{Int64: int64(p.Ayah), Valid: true}
			}
			if _, err := ayahStmt.ExecContext(ctx, ref.Surah, ref.Ayah, pos, j, prev, d.Text[ref]); err != nil {
				return errors.Wrapf(err, "failed to insert ayah %s", ref)
			}
		}
	}

	phraseStmt, err := tx.PrepareContext(ctx, `INSERT INTO phrases VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare phrase insert")
	}
	defer phraseStmt.Close()
	phrases := make([]string, 0, len(d.Owners))
	for p := range d.Owners {
		phrases = append(phrases, p)
	}
	sort.Strings(phrases)
	for _, p := range phrases {
		ref := d.Owners[p]
		if _, err := phraseStmt.ExecContext(ctx, p, ref.Surah, ref.Ayah, phrase.WordCount(p)); err != nil {
			return errors.Wrapf(err, "failed to insert phrase %q", p)
		}
	}

	return nil
}

func nullName(names map[int]string, s int) sql.NullString {
	name, ok := names[s]
	return sql.NullString{String: name, Valid: ok}
}
