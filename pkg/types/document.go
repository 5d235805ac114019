// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DocumentType identifies the format of an uploaded contract.
type DocumentType string

const (
	DocumentText DocumentType = "text"
	DocumentPDF  DocumentType = "pdf"
	DocumentDOCX DocumentType = "docx"
)

// Document is a contract after text extraction.
type Document struct {
	// Path is the local file the text was read from.
	Path string `json:"path" yaml:"path"`

	// Type is the detected input format.
	Type DocumentType `json:"type" yaml:"type"`

	// Text is the normalised document text.
	Text string `json:"text" yaml:"text"`

	// Language is the detected language code.
	Language string `json:"language" yaml:"language"`
}
