// Package store provides SQLite-backed persistence for gear catalogs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scbrown/gearcalc/internal/catalog"
	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/ratio"

	_ "modernc.org/sqlite"
)

const schemaVersion = 2

// timeFormat has fixed-width fractional seconds so timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at dbPath.
// It auto-creates the parent directory (e.g. ~/.gearcalc/) and runs
// schema migrations to ensure the database is up to date.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for WAL mode simplicity.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate runs schema migrations up to the current version.
func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&ver)
	if err == sql.ErrNoRows {
		ver = 0
	} else if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	if ver < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if ver < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			gears      TEXT NOT NULL,
			min_gears  INTEGER NOT NULL,
			max_gears  INTEGER NOT NULL,
			ratios     INTEGER NOT NULL,
			trains     INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trains (
			run_id   TEXT NOT NULL,
			ratio    TEXT NOT NULL,
			num      INTEGER NOT NULL,
			den      INTEGER NOT NULL,
			length   INTEGER NOT NULL,
			position INTEGER NOT NULL,
			gears    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trains_ratio ON trains(ratio)`,
		`INSERT OR REPLACE INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) migrateV2() error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_trains_length ON trains(length)`,
		`UPDATE schema_version SET version = 2`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v2: %w", err)
		}
	}
	return nil
}

// SaveRun persists c under run in a single transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run model.Run, c *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, gears, min_gears, max_gears, ratios, trains)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(timeFormat),
		strings.Join(run.Gears, ","),
		run.MinGears,
		run.MaxGears,
		run.Ratios,
		run.Trains,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trains`); err != nil {
		return fmt.Errorf("clear trains: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trains (run_id, ratio, num, den, length, position, gears)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert train: %w", err)
	}
	defer stmt.Close()

	var pos int
	var last ratio.Ratio
	err = c.Each(func(r ratio.Ratio, t gear.Train) error {
		if r != last {
			pos, last = 0, r
		}
		if _, err := stmt.ExecContext(ctx, run.ID, r.String(), r.Num, r.Den, len(t), pos, strings.Join(gear.Tokens(t), ",")); err != nil {
			return fmt.Errorf("insert train %s: %w", gear.Format(t), err)
		}
		pos++
		return nil
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListRuns returns every run, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, gears, min_gears, max_gears, ratios, trains
		 FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var createdAt, gears string
		if err := rows.Scan(&r.ID, &createdAt, &gears, &r.MinGears, &r.MaxGears, &r.Ratios, &r.Trains); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		t, err := time.Parse(timeFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		r.CreatedAt = t
		r.Gears = strings.Split(gears, ",")
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Lookup returns the trains stored for r, or nil if there are none.
func (s *SQLiteStore) Lookup(ctx context.Context, r ratio.Ratio) (*model.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, gears FROM trains WHERE ratio = ? ORDER BY position`, r.String())
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", r, err)
	}
	defer rows.Close()

	var entry *model.Entry
	for rows.Next() {
		var runID, gears string
		if err := rows.Scan(&runID, &gears); err != nil {
			return nil, fmt.Errorf("scan train: %w", err)
		}
		if entry == nil {
			entry = &model.Entry{Ratio: r.String(), RunID: runID}
		}
		entry.Trains = append(entry.Trains, strings.Split(gears, ","))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRatios returns stored ratios ordered by value.
func (s *SQLiteStore) ListRatios(ctx context.Context, opts RatioOpts) ([]model.RatioCount, error) {
	query := "SELECT ratio, num, den, COUNT(*) AS cnt, MIN(length) AS shortest FROM trains"
	var args []any
	if opts.MaxGears > 0 {
		query += " WHERE length <= ?"
		args = append(args, opts.MaxGears)
	}
	query += " GROUP BY ratio, num, den"
	if opts.MinTrains > 0 {
		query += " HAVING cnt >= ?"
		args = append(args, opts.MinTrains)
	}
	query += " ORDER BY CAST(num AS REAL) / den"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ratios: %w", err)
	}
	defer rows.Close()

	var ratios []model.RatioCount
	for rows.Next() {
		var rc model.RatioCount
		var num, den int64
		if err := rows.Scan(&rc.Ratio, &num, &den, &rc.Count, &rc.MinGears); err != nil {
			return nil, fmt.Errorf("scan ratio: %w", err)
		}
		rc.Value = ratio.Ratio{Num: num, Den: den}.Float()
		ratios = append(ratios, rc)
	}
	return ratios, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
