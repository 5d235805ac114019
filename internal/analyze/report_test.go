// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/contract-engine/pkg/types"
)

func sampleAnalysis() *types.Analysis {
	return &types.Analysis{
		ID:     "a1",
		Source: "nda.txt",
		Summary: types.SummaryAnalysis{
			ContractType:    "Non-Disclosure Agreement",
			InvolvedParties: types.StringList{"Acme", "Beta"},
			ImportantDates: []types.ImportantDate{
				{Date: "1 April 2026", Context: "Effective date"},
				{Context: "Renewal every year"},
			},
			SectionsSummary: []types.SectionSummary{
				{SectionName: "Confidentiality", SimpleExplanation: "Keep secrets.\nForever | always."},
			},
			OverallRiskScore: 65,
			ExecutiveSummary: "Mostly fair.",
			KeyRiskAreas:     types.StringList{"Indemnity"},
		},
		ClauseAnalysis: []types.ClauseAssessment{
			{RiskLevel: types.RiskLow, Explanation: "Fine."},
			{RiskLevel: types.RiskHigh, IdentifiedIssue: "Unlimited liability", Explanation: "You pay everything.", MitigationSuggestion: "Cap it."},
			{RiskLevel: types.RiskUnrated, IdentifiedIssue: "Unclear", Explanation: "?"},
		},
	}
}

func TestRenderReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, sampleAnalysis()))
	out := buf.String()

	for _, want := range []string{
		"# Contract Risk Analysis\n",
		"**Document:** nda.txt",
		"**Total Risk Score:** 65 / 100",
		"**Detected Contract Type:** Non-Disclosure Agreement",
		"**Involved Parties:** Acme, Beta",
		"| High | 1 |\n| Low | 1 |\n| Unrated | 1 |\n",
		"## Executive Summary\n\nMostly fair.",
		"## Key Risk Areas\n\n- Indemnity\n",
		"- **1 April 2026:** Effective date\n- Renewal every year\n",
		"| Confidentiality | Keep secrets. Forever \\| always. |",
		"### High Risk Clauses\n\n#### Issue: Unlimited liability\n\n**Explanation:** You pay everything.\n\n**Mitigation:** Cap it.\n",
		"#### Issue: No significant issues identified",
		"### Unrated Risk Clauses",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "| Medium |", "levels without clauses are omitted")
	assert.NotContains(t, out, "### Medium Risk Clauses")

	high := strings.Index(out, "### High Risk Clauses")
	low := strings.Index(out, "### Low Risk Clauses")
	assert.True(t, high >= 0 && low > high, "high risk clauses come first")
}

func TestRenderReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, &types.Analysis{}))
	out := buf.String()

	assert.Contains(t, out, "**Total Risk Score:** 0 / 100")
	assert.Contains(t, out, "**Detected Contract Type:** N/A")
	assert.Contains(t, out, "**Involved Parties:** N/A")
	assert.Contains(t, out, "No summary available.")
	assert.Contains(t, out, "No specific dates were mentioned in the document.")
	assert.Contains(t, out, "No specific sections or rules were automatically identified.")
	assert.NotContains(t, out, "## Risk Distribution")
	assert.NotContains(t, out, "**Document:**")
}
