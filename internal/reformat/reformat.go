// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reformat rewrites a contract into a standard agreement template.
//
// The template has fixed headings, recitals and signature blocks. Three
// sections are lifted from the source text by keyword anchors (parties,
// governing law, dispute resolution) and the numbered clauses are copied in
// as a single block. Missing sections are replaced by configurable fallback
// text so the output is always a complete document.
package reformat

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/contract-engine/internal/section"
	"github.com/pdiddy/contract-engine/internal/segment"
	"github.com/pdiddy/contract-engine/pkg/types"
)

// TemplateType names the kind of agreement to produce.
type TemplateType string

const (
	NDA        TemplateType = "Non-Disclosure Agreement (NDA)"
	Service    TemplateType = "Service Agreement"
	Employment TemplateType = "Employment Agreement"
)

// TemplateTypes lists the built-in template types in menu order.
var TemplateTypes = []TemplateType{NDA, Service, Employment}

// ClausesPlaceholder stands in for the numbered clauses when the source has none.
const ClausesPlaceholder = "[COULD NOT AUTOMATICALLY EXTRACT NUMBERED CLAUSES]"

// bodyRe matches from the first numbered line to the end of the text.
var bodyRe = regexp.MustCompile(`(?s)\n` + segment.Space + `*\p{Nd}+\..+`)

var agreementTmpl = template.Must(template.New("agreement").Parse(
	`## {{.Heading}}
**This Agreement** is made and entered into on this ______ day of __________, 20__
**BY AND BETWEEN:**
{{.Parties}}
**WHEREAS:**
(A) [Insert Recital A]
(B) [Insert Recital B]
**NOW, THEREFORE, IN CONSIDERATION OF THE MUTUAL COVENANTS CONTAINED HEREIN, THE PARTIES AGREE AS FOLLOWS:**
---
### NUMBERED CLAUSES
---
{{.Clauses}}
---
### STANDARD CLAUSES
---
**GOVERNING LAW AND JURISDICTION**
{{.GoverningLaw}}
**DISPUTE RESOLUTION**
{{.DisputeResolution}}
**IN WITNESS WHEREOF,** the Parties have executed this Agreement as of the date first above written.
**For [PARTY 1 NAME]:**
_________________________
Name:
Title:
**For [PARTY 2 NAME]:**
_________________________
Name:
Title:
`))

type agreementData struct {
	Heading           string
	Parties           string
	Clauses           string
	GoverningLaw      string
	DisputeResolution string
}

// Reformatter fills the agreement template from a contract's text.
type Reformatter struct {
	Config types.TemplateConfig
}

// New returns a Reformatter using cfg.
func New(cfg types.TemplateConfig) Reformatter {
	return Reformatter{Config: cfg}
}

// Reformat returns text rewritten as an agreement of the given type. Any
// type name is accepted; it is upper-cased for the heading.
func (r Reformatter) Reformat(text string, kind TemplateType) (string, error) {
	parties := r.Config.Parties
	if len(parties.End) == 0 {
		parties.End = r.Config.Headings
	}

	data := agreementData{
		Heading:           strings.ToUpper(string(kind)),
		Parties:           find(text, parties),
		Clauses:           NumberedClauses(text),
		GoverningLaw:      find(text, r.Config.GoverningLaw),
		DisputeResolution: find(text, r.Config.DisputeResolution),
	}

	var b strings.Builder
	if err := agreementTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", kind, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// NumberedClauses returns everything from the first numbered line to the end
// of text, trimmed, or ClausesPlaceholder when there is no numbered line.
func NumberedClauses(text string) string {
	loc := bodyRe.FindStringIndex(text)
	if loc == nil {
		return ClausesPlaceholder
	}
	return strings.TrimSpace(text[loc[0]:loc[1]])
}

// fileNameReplacer maps spaces and path separators in a template type to
// underscores so the file name is a single path element.
var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// FileName returns the download name for a reformatted contract.
func FileName(kind TemplateType) string {
	return "Reformatted_" + fileNameReplacer.Replace(string(kind)) + ".txt"
}

func find(text string, rule types.SectionRule) string {
	if s := section.Extract(text, rule.Start, rule.End); s != "" {
		return s
	}
	return rule.Fallback
}
