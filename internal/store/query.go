// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/contract-engine/pkg/types"
)

// Entry is one row of the history listing.
type Entry struct {
	ID               string      `json:"id" yaml:"id"`
	Source           string      `json:"source" yaml:"source"`
	Language         string      `json:"language" yaml:"language"`
	CreatedAt        time.Time   `json:"created_at" yaml:"created_at"`
	ContractType     string      `json:"contract_type" yaml:"contract_type"`
	OverallRiskScore types.Score `json:"overall_risk_score" yaml:"overall_risk_score"`
	HighRisk         int         `json:"high_risk" yaml:"high_risk"`
	Clauses          int         `json:"clauses" yaml:"clauses"`
}

// List returns up to limit analyses, newest first. Zero uses the store default.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.source, a.language, a.created_at, a.contract_type, a.overall_risk_score,
			COALESCE(SUM(CASE WHEN c.risk_level = ? THEN 1 ELSE 0 END), 0),
			COUNT(c.rowid)
		FROM analyses a
		LEFT JOIN assessments c ON c.analysis_id = a.id
		GROUP BY a.id
		ORDER BY a.created_at DESC
		LIMIT ?`, string(types.RiskHigh), limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			language     sql.NullString
			createdAt    string
			contractType sql.NullString
			score        sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Source, &language, &createdAt, &contractType, &score,
			&e.HighRisk, &e.Clauses); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Language = language.String
		e.ContractType = contractType.String
		e.OverallRiskScore = types.Score(score.Int64)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// QueryOptions holds parameters for assessment searches.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over issue, explanation and
	// mitigation.
	Query string

	// Level filters by risk level.
	Level types.RiskLevel

	// AnalysisID restricts results to one analysis.
	AnalysisID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Level == "" && q.AnalysisID == ""
}

// Match is a clause assessment with the analysis it belongs to.
type Match struct {
	types.ClauseAssessment `yaml:",inline"`

	AnalysisID   string `json:"analysis_id" yaml:"analysis_id"`
	Source       string `json:"source" yaml:"source"`
	ContractType string `json:"contract_type" yaml:"contract_type"`
	Position     int    `json:"position" yaml:"position"`
}

// Search finds clause assessments by full-text query and filters. Results
// are ranked by relevance for full-text queries, otherwise ordered newest
// analysis first and by clause position.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Match, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT c.analysis_id, c.position, c.risk_level, c.explanation, c.identified_issue,
				c.mitigation_suggestion, a.source, a.contract_type
			FROM assessments_fts
			JOIN assessments c ON c.rowid = assessments_fts.rowid
			JOIN analyses a ON a.id = c.analysis_id
			WHERE assessments_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT c.analysis_id, c.position, c.risk_level, c.explanation, c.identified_issue,
				c.mitigation_suggestion, a.source, a.contract_type
			FROM assessments c
			JOIN analyses a ON a.id = c.analysis_id
			WHERE 1=1`)
	}

	if opts.Level != "" {
		qb.WriteString(` AND c.risk_level = ?`)
		args = append(args, string(opts.Level))
	}
	if opts.AnalysisID != "" {
		qb.WriteString(` AND c.analysis_id = ?`)
		args = append(args, opts.AnalysisID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY assessments_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.created_at DESC, c.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var level string
		var explanation, issue, mitigation, contractType sql.NullString
		if err := rows.Scan(&m.AnalysisID, &m.Position, &level, &explanation, &issue,
			&mitigation, &m.Source, &contractType); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		m.RiskLevel = types.RiskLevel(level)
		m.Explanation = explanation.String
		m.IdentifiedIssue = issue.String
		m.MitigationSuggestion = mitigation.String
		m.ContractType = contractType.String
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
