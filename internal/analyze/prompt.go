// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"fmt"
	"text/template"
)

// systemPromptTmpl instructs the model to return the analysis as a single
// JSON object with summary_analysis and clause_analysis keys.
var systemPromptTmpl = template.Must(template.New("analysis").Parse(`You are an expert AI legal assistant for small and medium business owners. Analyze the contract you are given from the business owner's perspective. The contract is in {{.Language}}, and your analysis must also be in {{.Language}}.

You MUST respond with a single, valid JSON object and nothing else. The object has two keys:

"summary_analysis": an object with
- "contract_type": the kind of agreement
- "involved_parties": a list of the parties
- "important_dates": a list of objects, each with "date" and "context"
- "sections_summary": a list of objects, each with "section_name" and "simple_explanation"
- "overall_risk_score": an integer from 1 (safe) to 100 (very risky)
- "executive_summary": a short plain-language summary
- "key_risk_areas": a list of the main risk areas

"clause_analysis": a list with one object per clause, in document order, each with
- "risk_level": "High", "Medium" or "Low"
- "explanation": what the clause means for the business owner
- "identified_issue": the problem, if any
- "mitigation_suggestion": how to negotiate or reduce the risk
`))

// userPromptTmpl wraps the joined clauses.
var userPromptTmpl = template.Must(template.New("contract").Parse(`Please analyze the following contract text:

---
{{.Contract}}
---`))

func renderPrompts(languageName, contract string) (system, user string, err error) {
	var sb, ub bytes.Buffer
	if err := systemPromptTmpl.Execute(&sb, struct{ Language string }{languageName}); err != nil {
		return "", "", fmt.Errorf("rendering system prompt: %w", err)
	}
	if err := userPromptTmpl.Execute(&ub, struct{ Contract string }{contract}); err != nil {
		return "", "", fmt.Errorf("rendering contract prompt: %w", err)
	}
	return sb.String(), ub.String(), nil
}
