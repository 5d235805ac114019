// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the contract-engine pipeline.
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RiskLevel grades a single clause.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "High"
	RiskMedium  RiskLevel = "Medium"
	RiskLow     RiskLevel = "Low"
	RiskUnrated RiskLevel = "Unrated"
)

// RiskLevels lists the graded levels in report order.
var RiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow}

// ParseRiskLevel maps a free-form model label onto a RiskLevel. Labels are
// matched case-insensitively by substring so "High Risk" and "high" agree.
func ParseRiskLevel(s string) RiskLevel {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "high"):
		return RiskHigh
	case strings.Contains(l, "medium"):
		return RiskMedium
	case strings.Contains(l, "low"):
		return RiskLow
	}
	return RiskUnrated
}

// ImportantDate is a date the contract mentions together with its context.
type ImportantDate struct {
	Date    string `json:"date" yaml:"date"`
	Context string `json:"context" yaml:"context"`
}

// UnmarshalJSON accepts either an object or a bare string. A bare string
// becomes the Context with an empty Date.
func (d *ImportantDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = ImportantDate{Context: strings.TrimSpace(s)}
		return nil
	}
	type plain ImportantDate
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = ImportantDate(p)
	return nil
}

// SectionSummary explains one section or rule of the contract in plain words.
type SectionSummary struct {
	SectionName       string `json:"section_name" yaml:"section_name"`
	SimpleExplanation string `json:"simple_explanation" yaml:"simple_explanation"`
}

// UnmarshalJSON accepts either an object or a "Name: explanation" string.
func (s *SectionSummary) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		name, explanation, ok := strings.Cut(str, ":")
		if !ok {
			*s = SectionSummary{SectionName: strings.TrimSpace(str), SimpleExplanation: "See first column"}
			return nil
		}
		*s = SectionSummary{SectionName: strings.TrimSpace(name), SimpleExplanation: strings.TrimSpace(explanation)}
		return nil
	}
	type plain SectionSummary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = SectionSummary(p)
	return nil
}

// StringList decodes from either a JSON string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// Score is an overall risk score on a 1-100 scale. It decodes from a JSON
// number (fractions are rounded) or a numeric string such as "72" or "72/100".
type Score int

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = Score(math.Round(f))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("overall_risk_score: %w", err)
	}
	str, _, _ = strings.Cut(strings.TrimSpace(str), "/")
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return fmt.Errorf("overall_risk_score %q is not a number", str)
	}
	*s = Score(math.Round(f))
	return nil
}

// Clamp limits the score to 0..100.
func (s Score) Clamp() Score {
	return min(max(s, 0), 100)
}

// SummaryAnalysis is the document-level part of a risk analysis.
type SummaryAnalysis struct {
	ContractType     string           `json:"contract_type" yaml:"contract_type"`
	InvolvedParties  StringList       `json:"involved_parties" yaml:"involved_parties"`
	ImportantDates   []ImportantDate  `json:"important_dates" yaml:"important_dates"`
	SectionsSummary  []SectionSummary `json:"sections_summary" yaml:"sections_summary"`
	OverallRiskScore Score            `json:"overall_risk_score" yaml:"overall_risk_score"`
	ExecutiveSummary string           `json:"executive_summary" yaml:"executive_summary"`
	KeyRiskAreas     StringList       `json:"key_risk_areas" yaml:"key_risk_areas"`
}

// ClauseAssessment is the model's risk verdict for one clause.
type ClauseAssessment struct {
	RiskLevel            RiskLevel `json:"risk_level" yaml:"risk_level"`
	Explanation          string    `json:"explanation" yaml:"explanation"`
	IdentifiedIssue      string    `json:"identified_issue" yaml:"identified_issue"`
	MitigationSuggestion string    `json:"mitigation_suggestion" yaml:"mitigation_suggestion"`
}

// Analysis is a complete risk analysis of one contract.
type Analysis struct {
	// ID is a random UUID assigned when the analysis completes.
	ID string `json:"id" yaml:"id"`

	// Source names the analysed document (usually its file path).
	Source string `json:"source" yaml:"source"`

	// Language is the code the analysis was written in.
	Language string `json:"language" yaml:"language"`

	// CreatedAt is when the analysis completed.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Clauses are the segmented clauses sent to the model.
	Clauses []string `json:"clauses,omitempty" yaml:"clauses,omitempty"`

	Summary        SummaryAnalysis    `json:"summary_analysis" yaml:"summary_analysis"`
	ClauseAnalysis []ClauseAssessment `json:"clause_analysis" yaml:"clause_analysis"`
}
