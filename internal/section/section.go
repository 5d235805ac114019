// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section locates a named section of a contract by keyword anchors.
//
// A section starts at the first whole-word, case-insensitive occurrence of
// any start keyword and ends just before the first occurrence of any end
// keyword that follows it, or at the end of the text. A word is a run of
// letters, combining marks, digits and underscores in any script, so
// keywords in Devanagari anchor the same way English ones do.
package section

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWord matches one character that cannot be part of a word.
const nonWord = `[^\p{L}\p{M}\p{N}_]`

// Pattern matches any of a set of keywords as a whole word.
type Pattern struct {
	re *regexp.Regexp
}

// KeywordPattern builds a case-insensitive, whole-word alternation of the
// given keywords. Keywords are matched literally. Blank keywords are ignored;
// nil is returned when no keyword remains.
func KeywordPattern(keywords []string) *Pattern {
	alts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(k))
	}
	if len(alts) == 0 {
		return nil
	}
	// The edge characters are consumed by the match; group 1 is the keyword.
	return &Pattern{re: regexp.MustCompile(
		`(?i)` + nonWord + `(` + strings.Join(alts, "|") + `)(?:$|` + nonWord + `)`)}
}

// Index returns the byte range of the first keyword occurrence in text that
// starts at or after from, or nil when there is none. The character before
// from counts as the keyword's left neighbour.
func (p *Pattern) Index(text string, from int) []int {
	// The search window starts one character early so the left edge sees
	// the real neighbour; at the start of text a space stands in for it.
	var hay string
	var offset int
	if from == 0 {
		hay, offset = " "+text, -1
	} else {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		offset = from - size
		hay = text[offset:]
	}
	m := p.re.FindStringSubmatchIndex(hay)
	if m == nil {
		return nil
	}
	return []int{m[2] + offset, m[3] + offset}
}

// FindString returns the first whole-word keyword occurrence in text, or "".
func (p *Pattern) FindString(text string) string {
	loc := p.Index(text, 0)
	if loc == nil {
		return ""
	}
	return text[loc[0]:loc[1]]
}

// Span is the byte range [Start, End) of a located section.
type Span struct {
	Start int
	End   int
}

// Locate returns the span of the section anchored by start and end. The
// second result is false when no start keyword occurs in text.
func Locate(text string, start, end []string) (Span, bool) {
	startPat := KeywordPattern(start)
	if startPat == nil {
		return Span{}, false
	}
	m := startPat.Index(text, 0)
	if m == nil {
		return Span{}, false
	}

	span := Span{Start: m[0], End: len(text)}
	if endPat := KeywordPattern(end); endPat != nil {
		if e := endPat.Index(text, m[1]); e != nil {
			span.End = e[0]
		}
	}
	return span, true
}

// Extract returns the trimmed text of the section anchored by start and end.
// It returns an empty string when no start keyword occurs in text; callers
// substitute their own placeholder.
func Extract(text string, start, end []string) string {
	span, ok := Locate(text, start, end)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text[span.Start:span.End])
}
