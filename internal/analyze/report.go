// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/contract-engine/pkg/types"
)

const notAvailable = "N/A"

// reportLevels is the order clause groups appear in the report.
var reportLevels = append(append([]types.RiskLevel{}, types.RiskLevels...), types.RiskUnrated)

// RenderReport writes a Markdown report of a to w.
func RenderReport(w io.Writer, a *types.Analysis) error {
	var b strings.Builder
	s := a.Summary

	b.WriteString("# Contract Risk Analysis\n\n")
	if a.Source != "" {
		fmt.Fprintf(&b, "**Document:** %s\n\n", a.Source)
	}
	fmt.Fprintf(&b, "**Total Risk Score:** %d / 100\n\n", s.OverallRiskScore)
	fmt.Fprintf(&b, "**Detected Contract Type:** %s\n\n", orDefault(s.ContractType, notAvailable))
	parties := notAvailable
	if len(s.InvolvedParties) > 0 {
		parties = strings.Join(s.InvolvedParties, ", ")
	}
	fmt.Fprintf(&b, "**Involved Parties:** %s\n\n", parties)

	counts := RiskDistribution(a)
	if len(counts) > 0 {
		b.WriteString("## Risk Distribution\n\n| Risk Level | Clauses |\n|---|---|\n")
		for _, level := range reportLevels {
			if n := counts[level]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", level, n)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(orDefault(s.ExecutiveSummary, "No summary available."))
	b.WriteString("\n\n")

	if len(s.KeyRiskAreas) > 0 {
		b.WriteString("## Key Risk Areas\n\n")
		for _, area := range s.KeyRiskAreas {
			fmt.Fprintf(&b, "- %s\n", area)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Important Dates\n\n")
	if len(s.ImportantDates) == 0 {
		b.WriteString("No specific dates were mentioned in the document.\n\n")
	} else {
		for _, d := range s.ImportantDates {
			if d.Date == "" {
				fmt.Fprintf(&b, "- %s\n", orDefault(d.Context, notAvailable))
				continue
			}
			fmt.Fprintf(&b, "- **%s:** %s\n", d.Date, orDefault(d.Context, notAvailable))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Key Sections and Rules at a Glance\n\n")
	if len(s.SectionsSummary) == 0 {
		b.WriteString("No specific sections or rules were automatically identified.\n\n")
	} else {
		b.WriteString("| Section / Rule | Simple Explanation |\n|---|---|\n")
		for _, sec := range s.SectionsSummary {
			fmt.Fprintf(&b, "| %s | %s |\n",
				tableCell(orDefault(sec.SectionName, notAvailable)),
				tableCell(orDefault(sec.SimpleExplanation, "No explanation provided.")))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Clause-by-Clause Breakdown\n")
	for _, level := range reportLevels {
		group := clausesAt(a.ClauseAnalysis, level)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s Risk Clauses\n", level)
		missingIssue := notAvailable
		if level == types.RiskLow {
			missingIssue = "No significant issues identified"
		}
		for _, c := range group {
			fmt.Fprintf(&b, "\n#### Issue: %s\n\n", orDefault(c.IdentifiedIssue, missingIssue))
			fmt.Fprintf(&b, "**Explanation:** %s\n\n", orDefault(c.Explanation, notAvailable))
			fmt.Fprintf(&b, "**Mitigation:** %s\n", orDefault(c.MitigationSuggestion, notAvailable))
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func clausesAt(all []types.ClauseAssessment, level types.RiskLevel) []types.ClauseAssessment {
	var out []types.ClauseAssessment
	for _, c := range all {
		if c.RiskLevel == level {
			out = append(out, c)
		}
	}
	return out
}

// tableCell flattens newlines and escapes pipes so s fits one table cell.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
