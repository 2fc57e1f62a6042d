// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/credible-research/pkg/types"
)

const defaultListLimit = 20

// minPrefixLen is the shortest ID prefix Get accepts.
const minPrefixLen = 8

// Summary is one line of run history.
type Summary struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	Query       string    `json:"query" yaml:"query"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	ResultCount int       `json:"result_count" yaml:"result_count"`

	// Status is the verdict status for verify runs, empty otherwise.
	Status types.VerificationStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// ListOptions filters List.
type ListOptions struct {
	// Kind restricts to one operation. Empty lists all.
	Kind Kind

	// Limit caps the number of runs. Zero uses 20.
	Limit int
}

// Hit is an archived result matched by a full-text query.
type Hit struct {
	RunID string `json:"run_id" yaml:"run_id"`
	Query string `json:"query" yaml:"query"`

	types.ScoredResult `yaml:",inline"`
}

// List returns runs newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Summary, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	q := `SELECT r.id, r.kind, r.query, r.created_at,
			(SELECT count(*) FROM results x WHERE x.run_id = r.id),
			COALESCE(v.status, ''), COALESCE(v.sources_checked, 0)
		FROM runs r
		LEFT JOIN verdicts v ON v.run_id = r.id`
	var args []any
	if opts.Kind != "" {
		q += ` WHERE r.kind = ?`
		args = append(args, string(opts.Kind))
	}
	q += ` ORDER BY r.created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum           Summary
			kind, created string
			status        string
			checked       int
		)
		if err := rows.Scan(&sum.ID, &kind, &sum.Query, &created, &sum.ResultCount, &status, &checked); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.Kind = Kind(kind)
		sum.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		sum.Status = types.VerificationStatus(status)
		if sum.Kind == KindVerify {
			sum.ResultCount = checked
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads one run with its results and verdict. id may be a unique
// prefix of at least eight characters.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	run := &Run{ID: fullID}
	var kind, cats, created string
	err = s.db.QueryRowContext(ctx,
		`SELECT kind, query, COALESCE(categories, ''), COALESCE(num_results, 0), created_at FROM runs WHERE id = ?`, fullID,
	).Scan(&kind, &run.Query, &cats, &run.NumResults, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}
	run.Kind = Kind(kind)
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	if cats != "" {
		if err := json.Unmarshal([]byte(cats), &run.Categories); err != nil {
			return nil, fmt.Errorf("decoding categories for run %s: %w", fullID, err)
		}
	}

	run.Results, err = s.results(ctx, fullID)
	if err != nil {
		return nil, err
	}

	run.Verdict, err = s.verdict(ctx, fullID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) resolveID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	var exact int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, id).Scan(&exact); err != nil {
		return "", fmt.Errorf("looking up run: %w", err)
	}
	if exact == 1 || len(id) < minPrefixLen {
		return id, nil
	}

	// Plain comparison so % and _ in the prefix are not wildcards.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, utf8.RuneCountInString(id), id)
	if err != nil {
		return "", fmt.Errorf("looking up run: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return "", err
		}
		matches = append(matches, m)
	}
	switch len(matches) {
	case 0:
		return id, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

func (s *Store) results(ctx context.Context, runID string) ([]types.ScoredResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(title, ''), url, COALESCE(snippet, ''), COALESCE(position, 0),
			COALESCE(credibility_score, 0), COALESCE(source_category, '')
		FROM results WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading results: %w", err)
	}
	defer rows.Close()

	var out []types.ScoredResult
	for rows.Next() {
		var r types.ScoredResult
		var cat string
		if err := rows.Scan(&r.Title, &r.URL, &r.Snippet, &r.Position, &r.CredibilityScore, &cat); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.SourceCategory = types.SourceCategory(cat)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) verdict(ctx context.Context, runID string) (*types.VerificationVerdict, error) {
	var (
		v                    types.VerificationVerdict
		status, conf, evJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT claim, status, confidence, sources_checked, COALESCE(evidence, '') FROM verdicts WHERE run_id = ?`, runID,
	).Scan(&v.Claim, &status, &conf, &v.SourcesChecked, &evJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading verdict: %w", err)
	}
	v.Status = types.VerificationStatus(status)
	v.Confidence = types.Confidence(conf)
	v.Evidence = []types.Evidence{}
	if evJSON != "" {
		if err := json.Unmarshal([]byte(evJSON), &v.Evidence); err != nil {
			return nil, fmt.Errorf("parsing evidence: %w", err)
		}
	}
	return &v, nil
}

// Find runs an FTS4 full-text query over archived result titles and
// snippets, most credible first.
func (s *Store) Find(ctx context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("find query is empty")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.query, COALESCE(x.title, ''), x.url, COALESCE(x.snippet, ''),
			COALESCE(x.position, 0), COALESCE(x.credibility_score, 0), COALESCE(x.source_category, '')
		FROM results_fts
		JOIN results x ON x.rowid = results_fts.docid
		JOIN runs r ON r.id = x.run_id
		WHERE results_fts MATCH ?
		ORDER BY x.credibility_score DESC, r.created_at DESC, x.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}
	defer rows.Close()

	var out []Hit
	for rows.Next() {
		var h Hit
		var cat string
		if err := rows.Scan(&h.RunID, &h.Query, &h.Title, &h.URL, &h.Snippet, &h.Position, &h.CredibilityScore, &cat); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		h.SourceCategory = types.SourceCategory(cat)
		out = append(out, h)
	}
	return out, rows.Err()
}
