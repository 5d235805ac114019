// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/contract-engine/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Dir: filepath.Join(t.TempDir(), "history"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func analysis(id string, created time.Time, contractType string, levels ...types.RiskLevel) *types.Analysis {
	a := &types.Analysis{
		ID:        id,
		Source:    id + ".txt",
		Language:  "en",
		CreatedAt: created,
		Clauses:   []string{"1. First clause of the contract.", "2. Second clause of the contract."},
		Summary: types.SummaryAnalysis{
			ContractType:     contractType,
			InvolvedParties:  types.StringList{"Acme", "Beta"},
			ImportantDates:   []types.ImportantDate{{Date: "1 May 2026", Context: "Start"}},
			SectionsSummary:  []types.SectionSummary{{SectionName: "Payment", SimpleExplanation: "Net 30"}},
			OverallRiskScore: 55,
			ExecutiveSummary: "Balanced.",
		},
	}
	issues := map[types.RiskLevel]string{
		types.RiskHigh:   "Unlimited indemnity obligation",
		types.RiskMedium: "Automatic renewal without notice",
		types.RiskLow:    "Standard notice address",
	}
	for _, l := range levels {
		a.ClauseAnalysis = append(a.ClauseAnalysis, types.ClauseAssessment{
			RiskLevel:            l,
			Explanation:          "Explanation for " + string(l),
			IdentifiedIssue:      issues[l],
			MitigationSuggestion: "Negotiate",
		})
	}
	return a
}

var t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	s, err := Open(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
	assert.Equal(t, 20, s.maxResults, "zero max results uses the default")

	// Reopening an existing database keeps the schema.
	s2, err := Open(types.StoreConfig{Dir: dir})
	require.NoError(t, err)
	s2.Close()
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	a := analysis("a1", t0, "NDA", types.RiskHigh, types.RiskLow)

	require.NoError(t, s.Save(ctx, a))

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestSaveReplacesAssessments(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, analysis("a1", t0, "NDA", types.RiskHigh, types.RiskLow)))
	require.NoError(t, s.Save(ctx, analysis("a1", t0, "Lease", types.RiskMedium)))

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Lease", got.Summary.ContractType)
	require.Len(t, got.ClauseAnalysis, 1)
	assert.Equal(t, types.RiskMedium, got.ClauseAnalysis[0].RiskLevel)

	matches, err := s.Search(ctx, QueryOptions{Query: "indemnity"})
	require.NoError(t, err)
	assert.Empty(t, matches, "replaced assessments leave the full-text index")
}

func TestSaveRequiresID(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.Save(context.Background(), &types.Analysis{}))
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, analysis("a1", t0, "NDA", types.RiskHigh)))

	require.NoError(t, s.Delete(ctx, "a1"))
	_, err := s.Get(ctx, "a1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a1"), ErrNotFound)

	matches, err := s.Search(ctx, QueryOptions{})
	require.NoError(t, err)
	assert.Empty(t, matches, "assessments are deleted with their analysis")
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, analysis("old", t0, "NDA", types.RiskHigh, types.RiskHigh, types.RiskLow)))
	require.NoError(t, s.Save(ctx, analysis("new", t0.Add(time.Hour), "Service", types.RiskLow)))
	require.NoError(t, s.Save(ctx, analysis("empty", t0.Add(-time.Hour), "Lease")))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, []string{"new", "old", "empty"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, 2, entries[1].HighRisk)
	assert.Equal(t, 3, entries[1].Clauses)
	assert.Equal(t, 0, entries[2].Clauses)
	assert.Equal(t, types.Score(55), entries[0].OverallRiskScore)
	assert.Equal(t, "Service", entries[0].ContractType)
	assert.True(t, entries[0].CreatedAt.Equal(t0.Add(time.Hour)))

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, analysis("a1", t0, "NDA", types.RiskHigh, types.RiskMedium, types.RiskLow)))
	require.NoError(t, s.Save(ctx, analysis("a2", t0.Add(time.Hour), "Service", types.RiskHigh)))

	tests := []struct {
		name    string
		opts    QueryOptions
		wantIDs []string
	}{
		{"full text", QueryOptions{Query: "renewal"}, []string{"a1"}},
		{"full text across analyses", QueryOptions{Query: "indemnity"}, []string{"a1", "a2"}},
		{"full text with level filter", QueryOptions{Query: "explanation", Level: types.RiskLow}, []string{"a1"}},
		{"level only", QueryOptions{Level: types.RiskHigh}, []string{"a2", "a1"}},
		{"analysis filter", QueryOptions{AnalysisID: "a2"}, []string{"a2"}},
		{"no filters", QueryOptions{}, []string{"a2", "a1", "a1", "a1"}},
		{"limit", QueryOptions{MaxResults: 1}, []string{"a2"}},
		{"no match", QueryOptions{Query: "forfeiture"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := s.Search(ctx, tt.opts)
			require.NoError(t, err)
			var ids []string
			for _, m := range matches {
				ids = append(ids, m.AnalysisID)
			}
			if tt.opts.Query != "" {
				assert.ElementsMatch(t, tt.wantIDs, ids)
			} else {
				assert.Equal(t, tt.wantIDs, ids)
			}
		})
	}

	matches, err := s.Search(ctx, QueryOptions{Query: "renewal"})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Position)
	assert.Equal(t, "a1.txt", matches[0].Source)
	assert.Equal(t, "NDA", matches[0].ContractType)
	assert.Equal(t, "Automatic renewal without notice", matches[0].IdentifiedIssue)
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	assert.True(t, QueryOptions{MaxResults: 5}.IsEmpty())
	assert.False(t, QueryOptions{Level: types.RiskLow}.IsEmpty())
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, analysis("a1", t0, "NDA", types.RiskHigh)))
	require.NoError(t, s.Save(ctx, analysis("a2", t0.Add(time.Minute), "Service", types.RiskLow)))

	yamlPath, err := s.ExportYAML(ctx)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.yaml"), yamlPath)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.Analysis
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "a2", fromYAML[0].ID)

	jsonPath, err := s.ExportJSON(ctx)
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.Analysis
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 2)
	assert.Equal(t, types.RiskHigh, fromJSON[1].ClauseAnalysis[0].RiskLevel)
}
