// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/contract-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes every stored analysis to dir/export.yaml and returns the
// path written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	analyses, err := s.all(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(analyses)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every stored analysis to dir/export.json and returns the
// path written.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	analyses, err := s.all(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(analyses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) all(ctx context.Context) ([]*types.Analysis, error) {
	entries, err := s.List(ctx, exportLimit)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	analyses := make([]*types.Analysis, 0, len(entries))
	for _, e := range entries {
		a, err := s.Get(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("loading %s for export: %w", e.ID, err)
		}
		analyses = append(analyses, a)
	}
	return analyses, nil
}
