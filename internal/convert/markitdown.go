// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/contract-engine/internal/container"
)

// DefaultImage is the markitdown container image.
const DefaultImage = "markitdown:latest"

// MarkitdownExtractor converts PDF and DOCX files by piping them through the
// markitdown container image. It depends on a container.Runtime (docker or
// podman) injected at construction time.
type MarkitdownExtractor struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownExtractor verifies that image exists locally in rt and returns
// an extractor that runs it. An empty image means DefaultImage.
func NewMarkitdownExtractor(rt container.Runtime, image string) (*MarkitdownExtractor, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownExtractor{runtime: rt, image: image}, nil
}

// Extract streams the file at path into the container and returns its text
// output. The extension is passed as a hint because stdin carries no name.
func (m *MarkitdownExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, []string{"-x", ext}, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", path)
	}

	return out.String(), nil
}
