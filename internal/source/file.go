package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// FileSource reads a snapshot file instead of polling an endpoint.
// Useful for replaying captured payloads and for local development.
type FileSource struct {
	platform domain.Platform
	path     string
}

// NewFileSource creates a source backed by a JSON snapshot at path.
func NewFileSource(platform domain.Platform, path string) *FileSource {
	return &FileSource{platform: platform, path: path}
}

// Platform implements Source.
func (s *FileSource) Platform() domain.Platform {
	return s.platform
}

// Search implements Source. The snapshot is static, so the query is
// applied as a case-insensitive word filter over product names; an
// empty query returns everything.
func (s *FileSource) Search(ctx context.Context, query string) ([]domain.RawProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	records, err := DecodeProducts(data, s.platform)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", s.path, err)
	}

	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return records, nil
	}

	filtered := records[:0]
	for _, r := range records {
		name := strings.ToLower(r.Name)
		for _, w := range words {
			if strings.Contains(name, w) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered, nil
}
