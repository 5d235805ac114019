// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze sends a segmented contract to an LLM for a structured risk
// analysis and renders the result.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/contract-engine/internal/language"
	"github.com/pdiddy/contract-engine/internal/llm"
	"github.com/pdiddy/contract-engine/internal/segment"
	"github.com/pdiddy/contract-engine/pkg/types"
)

// ErrNoClauses is returned when segmentation yields nothing to analyze.
var ErrNoClauses = errors.New("no clauses long enough to analyze")

// Analyzer runs risk analyses against a Completer.
type Analyzer struct {
	Backend   llm.Completer
	Segmenter segment.Segmenter
	Languages language.Names
	Config    types.AIConfig

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// New returns an Analyzer configured from cfg.
func New(backend llm.Completer, cfg types.Config) *Analyzer {
	return &Analyzer{
		Backend:   backend,
		Segmenter: segment.New(cfg.Segment.MinClauseLength),
		Languages: language.NewNames(cfg.Languages),
		Config:    cfg.AI,
	}
}

// response is the JSON object the model is asked to produce.
type response struct {
	Summary        types.SummaryAnalysis    `json:"summary_analysis"`
	ClauseAnalysis []types.ClauseAssessment `json:"clause_analysis"`
}

// Analyze segments text, asks the backend for a risk analysis written in
// the language identified by lang, and returns the normalised result. An
// empty lang is detected from the text.
func (a *Analyzer) Analyze(ctx context.Context, source, text, lang string) (*types.Analysis, error) {
	clauses := a.Segmenter.Segment(text)
	if len(clauses) == 0 {
		return nil, ErrNoClauses
	}

	if lang == "" {
		lang = language.Detect(text)
	}

	system, user, err := renderPrompts(a.Languages.Name(lang), segment.Join(clauses))
	if err != nil {
		return nil, err
	}
	req := llm.Request{
		System:    system,
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: user}},
		JSON:      true,
		MaxTokens: a.Config.MaxTokens,
	}

	maxRetries := a.Config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var resp response
	err = callWithRetry(ctx, maxRetries, func() error {
		raw, err := a.Backend.Complete(ctx, req)
		if err != nil {
			return err
		}
		var r response
		if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &r); err != nil {
			return fmt.Errorf("decoding analysis: %w", err)
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", source, err)
	}

	result := &types.Analysis{
		ID:             a.newID(),
		Source:         source,
		Language:       lang,
		CreatedAt:      a.now(),
		Clauses:        clauses,
		Summary:        resp.Summary,
		ClauseAnalysis: resp.ClauseAnalysis,
	}
	Normalize(result)
	return result, nil
}

// Normalize clamps the overall score to 0..100 and maps every clause's risk
// level onto High, Medium, Low or Unrated.
func Normalize(a *types.Analysis) {
	a.Summary.OverallRiskScore = a.Summary.OverallRiskScore.Clamp()
	for i := range a.ClauseAnalysis {
		a.ClauseAnalysis[i].RiskLevel = types.ParseRiskLevel(string(a.ClauseAnalysis[i].RiskLevel))
	}
}

// RiskDistribution counts clauses per risk level.
func RiskDistribution(a *types.Analysis) map[types.RiskLevel]int {
	counts := make(map[types.RiskLevel]int)
	for _, c := range a.ClauseAnalysis {
		counts[c.RiskLevel]++
	}
	return counts
}

// WriteResult marshals the analysis to a YAML file.
func WriteResult(path string, a *types.Analysis) error {
	data, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *Analyzer) newID() string {
	if a.NewID != nil {
		return a.NewID()
	}
	return uuid.NewString()
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry runs fn until it succeeds, backing off exponentially between
// attempts. Context cancellation stops the loop.
func callWithRetry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
