// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists research runs (credible searches, multi-source
// research and claim verifications) in SQLite so they can be listed,
// searched and exported later.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/credible-research/pkg/types"
)

const dbFile = "archive.db"

// ErrRunNotFound is returned when no run matches an ID.
var ErrRunNotFound = errors.New("run not found")

// Kind names the operation a run recorded.
type Kind string

const (
	KindSearch   Kind = "search"
	KindResearch Kind = "research"
	KindVerify   Kind = "verify"
)

// Run is one archived operation and its output.
type Run struct {
	ID         string                     `json:"id" yaml:"id"`
	Kind       Kind                       `json:"kind" yaml:"kind"`
	Query      string                     `json:"query" yaml:"query"`
	Categories []types.SourceCategory     `json:"categories,omitempty" yaml:"categories,omitempty"`
	NumResults int                        `json:"num_results" yaml:"num_results"`
	CreatedAt  time.Time                  `json:"created_at" yaml:"created_at"`
	Results    []types.ScoredResult       `json:"results,omitempty" yaml:"results,omitempty"`
	Verdict    *types.VerificationVerdict `json:"verdict,omitempty" yaml:"verdict,omitempty"`
}

// Store manages the archive database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the archive at dir/archive.db and creates the
// schema if it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			query TEXT NOT NULL,
			categories TEXT,
			num_results INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			title TEXT,
			url TEXT NOT NULL,
			snippet TEXT,
			position INTEGER,
			credibility_score REAL,
			source_category TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
		`CREATE TABLE IF NOT EXISTS verdicts (
			run_id TEXT PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
			claim TEXT NOT NULL,
			status TEXT NOT NULL,
			confidence TEXT NOT NULL,
			sources_checked INTEGER NOT NULL,
			evidence TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS4 index over result titles and snippets, kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='results_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE results_fts USING fts4(title, snippet)`,
			`CREATE TRIGGER results_ai AFTER INSERT ON results BEGIN
				INSERT INTO results_fts(docid, title, snippet) VALUES (new.rowid, new.title, new.snippet);
			END`,
			`CREATE TRIGGER results_ad AFTER DELETE ON results BEGIN
				DELETE FROM results_fts WHERE docid = old.rowid;
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// Save stores run in one transaction, assigning ID and CreatedAt when unset.
// It returns the run ID.
func (s *Store) Save(ctx context.Context, run *Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	catsJSON, _ := json.Marshal(run.Categories)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, query, categories, num_results, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), run.Query, string(catsJSON), run.NumResults,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, rank, title, url, snippet, position, credibility_score, source_category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range run.Results {
		if _, err := stmt.ExecContext(ctx,
			run.ID, i+1, r.Title, r.URL, r.Snippet, r.Position, r.CredibilityScore, string(r.SourceCategory),
		); err != nil {
			return "", fmt.Errorf("inserting result %s: %w", r.URL, err)
		}
	}

	if v := run.Verdict; v != nil {
		evidenceJSON, _ := json.Marshal(v.Evidence)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO verdicts (run_id, claim, status, confidence, sources_checked, evidence) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, v.Claim, string(v.Status), string(v.Confidence), v.SourcesChecked, string(evidenceJSON),
		); err != nil {
			return "", fmt.Errorf("inserting verdict: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}
