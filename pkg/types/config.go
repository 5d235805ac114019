// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"time"
)

// KeywordGroup is an ordered set of case-insensitive alternative words or
// phrases that anchor a section boundary (e.g. "governing law", "jurisdiction").
type KeywordGroup []string

// SegmentConfig holds settings for clause segmentation.
type SegmentConfig struct {
	// MinClauseLength is the number of characters a trimmed clause must
	// exceed to be kept (default 20).
	MinClauseLength int `json:"min_clause_length" yaml:"min_clause_length" mapstructure:"min_clause_length"`
}

// SectionRule describes how one standard section is located in a contract
// and what to print when it cannot be found.
type SectionRule struct {
	// Start anchors the beginning of the section.
	Start KeywordGroup `json:"start" yaml:"start" mapstructure:"start"`

	// End anchors the first text after the section. Empty means the section
	// runs to the end of the document.
	End KeywordGroup `json:"end" yaml:"end" mapstructure:"end"`

	// Fallback replaces the section when no start keyword matches.
	Fallback string `json:"fallback" yaml:"fallback" mapstructure:"fallback"`
}

// TemplateConfig holds the keyword groups used by the template reformatter.
type TemplateConfig struct {
	// Headings lists every standard heading recognised in a contract.
	Headings KeywordGroup `json:"headings" yaml:"headings" mapstructure:"headings"`

	// Parties locates the "BY AND BETWEEN" block. Its End defaults to Headings.
	Parties SectionRule `json:"parties" yaml:"parties" mapstructure:"parties"`

	// GoverningLaw locates the governing law and jurisdiction clause.
	GoverningLaw SectionRule `json:"governing_law" yaml:"governing_law" mapstructure:"governing_law"`

	// DisputeResolution locates the dispute resolution clause.
	DisputeResolution SectionRule `json:"dispute_resolution" yaml:"dispute_resolution" mapstructure:"dispute_resolution"`
}

// AIProvider identifies the hosted LLM service.
type AIProvider string

const (
	ProviderAnthropic AIProvider = "anthropic"
	ProviderOpenAI    AIProvider = "openai"
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the backend: anthropic or openai.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// MaxTokens caps the generated output (default 8192).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// Timeout limits each HTTP attempt; rate-limit backoff is not counted.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// LanguageConfig maps language codes to the names used in prompts and output.
type LanguageConfig struct {
	// Names maps a language code ("en", "hi") to its display name.
	Names map[string]string `json:"names" yaml:"names" mapstructure:"names"`

	// Default is the code used when detection is unavailable or the code is unknown.
	Default string `json:"default" yaml:"default" mapstructure:"default"`
}

// ConversionConfig holds settings for document-to-text extraction.
type ConversionConfig struct {
	// Image is the container image used for PDF and DOCX files.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// StoreConfig holds settings for the analysis history.
type StoreConfig struct {
	// Dir is the directory holding contracts.db and export files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all stage configurations.
type Config struct {
	Segment    SegmentConfig    `json:"segment" yaml:"segment" mapstructure:"segment"`
	Template   TemplateConfig   `json:"template" yaml:"template" mapstructure:"template"`
	AI         AIConfig         `json:"ai" yaml:"ai" mapstructure:"ai"`
	Languages  LanguageConfig   `json:"languages" yaml:"languages" mapstructure:"languages"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion" mapstructure:"conversion"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
}

// DefaultHeadings is the heading group that ends the parties block.
var DefaultHeadings = KeywordGroup{
	"term",
	"effective date",
	"confidentiality",
	"governing law",
	"jurisdiction",
	"dispute resolution",
	"arbitration",
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		Segment: SegmentConfig{MinClauseLength: 20},
		Template: TemplateConfig{
			Headings: DefaultHeadings,
			Parties: SectionRule{
				Start:    KeywordGroup{"parties", "between"},
				Fallback: "[PARTIES SECTION NOT FOUND - PLEASE INSERT MANUALLY]",
			},
			GoverningLaw: SectionRule{
				Start: KeywordGroup{"governing law", "jurisdiction"},
				End:   KeywordGroup{"dispute resolution", "arbitration"},
				Fallback: "This Agreement shall be governed by and construed in accordance with the laws of India. " +
					"The Parties agree to submit to the exclusive jurisdiction of the courts in [Specify City, e.g., Mumbai].",
			},
			DisputeResolution: SectionRule{
				Start: KeywordGroup{"dispute resolution", "arbitration"},
				Fallback: "Any dispute arising out of or in connection with this Agreement shall be referred to and finally " +
					"resolved by arbitration in accordance with the Arbitration and Conciliation Act, 1996. " +
					"The seat of the arbitration shall be [Specify City, e.g., New Delhi].",
			},
		},
		AI: AIConfig{
			Provider:   ProviderAnthropic,
			Model:      "claude-sonnet-4-5-20250929",
			MaxTokens:  8192,
			MaxRetries: 3,
			Timeout:    2 * time.Minute,
		},
		Languages: LanguageConfig{
			Names:   map[string]string{"en": "English", "hi": "Hindi"},
			Default: "en",
		},
		Conversion: ConversionConfig{Image: "markitdown:latest"},
		Store:      StoreConfig{Dir: "history", MaxResults: 20},
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	var errs []error
	if c.Segment.MinClauseLength < 0 {
		errs = append(errs, fmt.Errorf("segment.min_clause_length must not be negative, got %d", c.Segment.MinClauseLength))
	}
	for name, rule := range map[string]SectionRule{
		"parties":            c.Template.Parties,
		"governing_law":      c.Template.GoverningLaw,
		"dispute_resolution": c.Template.DisputeResolution,
	} {
		if len(rule.Start) == 0 {
			errs = append(errs, fmt.Errorf("template.%s.start must list at least one keyword", name))
		}
	}
	switch c.AI.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("ai.provider %q is not one of anthropic, openai", c.AI.Provider))
	}
	if c.AI.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("ai.max_retries must not be negative, got %d", c.AI.MaxRetries))
	}
	if c.Languages.Default == "" {
		errs = append(errs, errors.New("languages.default must be set"))
	}
	return errors.Join(errs...)
}
