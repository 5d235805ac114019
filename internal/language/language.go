// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package language decides which language a contract is written in and
// names languages for prompts and reports.
package language

import (
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/pdiddy/contract-engine/pkg/types"
)

const (
	English = "en"
	Hindi   = "hi"
)

// DevanagariThreshold is the share of letters that must be Devanagari for a
// text to be classified as Hindi.
const DevanagariThreshold = 0.3

// Detect classifies text as Hindi or English. Only these two languages are
// supported, so anything with a substantial share of Devanagari letters is
// Hindi and everything else, including empty text, is English.
func Detect(text string) string {
	var letters, devanagari int
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Devanagari, r) {
			devanagari++
		}
	}
	if letters == 0 {
		return English
	}
	if float64(devanagari)/float64(letters) >= DevanagariThreshold {
		return Hindi
	}
	return English
}

// Names resolves language codes to display names.
type Names struct {
	cfg types.LanguageConfig
}

// NewNames returns a resolver over the configured names.
func NewNames(cfg types.LanguageConfig) Names {
	return Names{cfg: cfg}
}

// Name returns the configured name for code. Unconfigured but valid BCP 47
// codes fall back to their English display name; anything else resolves to
// the default language.
func (n Names) Name(code string) string {
	if name, ok := n.cfg.Names[code]; ok {
		return name
	}
	if tag, err := language.Parse(code); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	if code != n.cfg.Default && n.cfg.Default != "" {
		return n.Name(n.cfg.Default)
	}
	return "English"
}

// Resolve returns code when it is configured, otherwise the default code.
func (n Names) Resolve(code string) string {
	if _, ok := n.cfg.Names[code]; ok {
		return code
	}
	if n.cfg.Default != "" {
		return n.cfg.Default
	}
	return English
}
