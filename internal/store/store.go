// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a local history of contract analyses in SQLite with
// a full-text index over the clause assessments.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/contract-engine/pkg/types"
)

const dbFile = "contracts.db"

// ErrNotFound is returned when no analysis has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Store manages the history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Open opens or creates dir/contracts.db and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
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

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			language TEXT,
			created_at TEXT NOT NULL,
			contract_type TEXT,
			overall_risk_score INTEGER,
			summary TEXT NOT NULL,
			clauses TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS assessments (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			risk_level TEXT NOT NULL,
			explanation TEXT,
			identified_issue TEXT,
			mitigation_suggestion TEXT,
			UNIQUE(analysis_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_level ON assessments(risk_level)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='assessments_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE assessments_fts USING fts5(
			identified_issue, explanation, mitigation_suggestion,
			content=assessments, content_rowid=rowid)`,
		`CREATE TRIGGER assessments_ai AFTER INSERT ON assessments BEGIN
			INSERT INTO assessments_fts(rowid, identified_issue, explanation, mitigation_suggestion)
			VALUES (new.rowid, new.identified_issue, new.explanation, new.mitigation_suggestion);
		END`,
		`CREATE TRIGGER assessments_ad AFTER DELETE ON assessments BEGIN
			INSERT INTO assessments_fts(assessments_fts, rowid, identified_issue, explanation, mitigation_suggestion)
			VALUES ('delete', old.rowid, old.identified_issue, old.explanation, old.mitigation_suggestion);
		END`,
		`CREATE TRIGGER assessments_au AFTER UPDATE ON assessments BEGIN
			INSERT INTO assessments_fts(assessments_fts, rowid, identified_issue, explanation, mitigation_suggestion)
			VALUES ('delete', old.rowid, old.identified_issue, old.explanation, old.mitigation_suggestion);
			INSERT INTO assessments_fts(rowid, identified_issue, explanation, mitigation_suggestion)
			VALUES (new.rowid, new.identified_issue, new.explanation, new.mitigation_suggestion);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Save inserts or replaces an analysis and its clause assessments.
func (s *Store) Save(ctx context.Context, a *types.Analysis) error {
	if a.ID == "" {
		return errors.New("analysis has no ID")
	}
	summaryJSON, err := json.Marshal(a.Summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	clausesJSON, err := json.Marshal(a.Clauses)
	if err != nil {
		return fmt.Errorf("marshaling clauses: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assessments WHERE analysis_id = ?`, a.ID); err != nil {
		return fmt.Errorf("deleting old assessments: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (id, source, language, created_at, contract_type, overall_risk_score, summary, clauses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source=excluded.source, language=excluded.language, created_at=excluded.created_at,
			contract_type=excluded.contract_type, overall_risk_score=excluded.overall_risk_score,
			summary=excluded.summary, clauses=excluded.clauses`,
		a.ID, a.Source, a.Language, a.CreatedAt.UTC().Format(time.RFC3339Nano),
		a.Summary.ContractType, int(a.Summary.OverallRiskScore),
		string(summaryJSON), string(clausesJSON),
	)
	if err != nil {
		return fmt.Errorf("upserting analysis: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assessments (analysis_id, position, risk_level, explanation, identified_issue, mitigation_suggestion)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range a.ClauseAnalysis {
		_, err := stmt.ExecContext(ctx,
			a.ID, i, string(c.RiskLevel), c.Explanation, c.IdentifiedIssue, c.MitigationSuggestion)
		if err != nil {
			return fmt.Errorf("inserting assessment %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Get loads a stored analysis by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Analysis, error) {
	var (
		a           types.Analysis
		language    sql.NullString
		createdAt   string
		summaryJSON string
		clausesJSON sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, language, created_at, summary, clauses FROM analyses WHERE id = ?`, id,
	).Scan(&a.ID, &a.Source, &language, &createdAt, &summaryJSON, &clausesJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("looking up analysis: %w", err)
	}

	a.Language = language.String
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(summaryJSON), &a.Summary); err != nil {
		return nil, fmt.Errorf("decoding summary: %w", err)
	}
	if clausesJSON.Valid && clausesJSON.String != "" {
		if err := json.Unmarshal([]byte(clausesJSON.String), &a.Clauses); err != nil {
			return nil, fmt.Errorf("decoding clauses: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT risk_level, explanation, identified_issue, mitigation_suggestion
		 FROM assessments WHERE analysis_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying assessments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var explanation, issue, mitigation sql.NullString
		if err := rows.Scan(&level, &explanation, &issue, &mitigation); err != nil {
			return nil, fmt.Errorf("scanning assessment: %w", err)
		}
		a.ClauseAnalysis = append(a.ClauseAnalysis, types.ClauseAssessment{
			RiskLevel:            types.RiskLevel(level),
			Explanation:          explanation.String,
			IdentifiedIssue:      issue.String,
			MitigationSuggestion: mitigation.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes an analysis and its assessments.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
