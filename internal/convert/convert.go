// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts plain text from contract files. Plain text is
// read directly; PDF and DOCX go through a converter container.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/contract-engine/internal/language"
	"github.com/pdiddy/contract-engine/pkg/types"
)

// ErrUnsupportedType is returned for files that are not .txt, .pdf or .docx.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor returns the text content of a document file.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// TypeOf maps a file extension onto a DocumentType.
func TypeOf(path string) (types.DocumentType, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md":
		return types.DocumentText, nil
	case ".pdf":
		return types.DocumentPDF, nil
	case ".docx":
		return types.DocumentDOCX, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedType, filepath.Ext(path))
}

// TextExtractor reads UTF-8 text files.
type TextExtractor struct{}

// Extract reads path and rejects content that is not valid UTF-8.
func (TextExtractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	return string(data), nil
}

// Router dispatches on file type. Office is used for PDF and DOCX; when it is
// nil those types fail with a descriptive error.
type Router struct {
	Text   Extractor
	Office Extractor
}

// Extract implements Extractor.
func (r Router) Extract(ctx context.Context, path string) (string, error) {
	kind, err := TypeOf(path)
	if err != nil {
		return "", err
	}
	switch kind {
	case types.DocumentText:
		text := r.Text
		if text == nil {
			text = TextExtractor{}
		}
		return text.Extract(ctx, path)
	default:
		if r.Office == nil {
			return "", fmt.Errorf("extracting %s: %s files need a container runtime (docker or podman)", path, kind)
		}
		return r.Office.Extract(ctx, path)
	}
}

// Load extracts, normalises and classifies a document.
func Load(ctx context.Context, ex Extractor, path string) (types.Document, error) {
	kind, err := TypeOf(path)
	if err != nil {
		return types.Document{}, err
	}
	raw, err := ex.Extract(ctx, path)
	if err != nil {
		return types.Document{}, err
	}
	text := Normalize(raw)
	if strings.TrimSpace(text) == "" {
		return types.Document{}, fmt.Errorf("%s contains no text", path)
	}
	return types.Document{
		Path:     path,
		Type:     kind,
		Text:     text,
		Language: language.Detect(text),
	}, nil
}

// Normalize strips a byte-order mark, converts CRLF and lone CR line endings
// to LF, and composes the text to Unicode NFC so clause markers and keywords
// match regardless of how the source encoded them.
func Normalize(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return norm.NFC.String(s)
}
