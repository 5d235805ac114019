// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits contract text into numbered clauses.
//
// A clause boundary is a line that begins with a number, a period and a
// whitespace character ("\n12. "). The heuristic cannot tell a real clause
// number from any other line that happens to start that way: a date written
// "12. March", an amount, or a continued list item will also start a new
// clause. Callers that need better accuracy must pre-process the text; the
// segmenter keeps the simple rule so output stays stable across versions.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinClauseLength is the number of characters a trimmed clause must
// exceed to be kept. Shorter fragments (stray numbers, headings) are dropped.
const DefaultMinClauseLength = 20

// Space is a regexp character class for one whitespace character in the
// Unicode sense: the ASCII spaces plus vertical tab, the information
// separators, NEL and every space or line separator such as NO-BREAK SPACE.
const Space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// boundaryRe matches the start of a numbered clause: a newline, optional
// whitespace, one or more decimal digits of any script, a period and one
// whitespace character. Any number at a line start opens a clause, so a
// year or an amount that begins a wrapped line is also a boundary.
var boundaryRe = regexp.MustCompile(`\n` + Space + `*\p{Nd}+\.` + Space)

// Segmenter splits text into clauses. The zero value uses a floor of zero,
// which keeps every non-empty clause; use New for the default floor.
type Segmenter struct {
	// MinClauseLength is the exclusive lower bound on clause length in runes.
	MinClauseLength int
}

// New returns a Segmenter with the given floor. A negative floor is treated
// as DefaultMinClauseLength.
func New(minClauseLength int) Segmenter {
	if minClauseLength < 0 {
		minClauseLength = DefaultMinClauseLength
	}
	return Segmenter{MinClauseLength: minClauseLength}
}

// Segment splits text with DefaultMinClauseLength.
func Segment(text string) []string {
	return New(DefaultMinClauseLength).Segment(text)
}

// Boundaries returns the byte offset of every clause boundary in text, in
// ascending order. Each offset points at the newline that opens the match.
func Boundaries(text string) []int {
	matches := boundaryRe.FindAllStringIndex(text, -1)
	offsets := make([]int, len(matches))
	for i, m := range matches {
		offsets[i] = m[0]
	}
	return offsets
}

// Segment returns the clauses of text in document order: the preamble before
// the first boundary, then one clause per boundary. Every clause is trimmed
// and longer than MinClauseLength runes; shorter ones are dropped. Text with
// no boundary is returned as a single clause under the same rule. Empty text
// yields an empty slice.
func (s Segmenter) Segment(text string) []string {
	clauses := []string{}
	if text == "" {
		return clauses
	}

	keep := func(span string) {
		span = strings.TrimSpace(span)
		if utf8.RuneCountInString(span) > s.MinClauseLength {
			clauses = append(clauses, span)
		}
	}

	starts := Boundaries(text)
	if len(starts) == 0 {
		keep(text)
		return clauses
	}

	keep(text[:starts[0]])
	for i := 0; i < len(starts)-1; i++ {
		keep(text[starts[i]:starts[i+1]])
	}
	keep(text[starts[len(starts)-1]:])

	return clauses
}

// Join concatenates clauses with a blank line between them, the form sent
// to the analysis model.
func Join(clauses []string) string {
	return strings.Join(clauses, "\n\n")
}
