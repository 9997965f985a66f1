// Package source fetches raw product listings from platform feeds.
//
// Each platform exposes a Source; the Runner fans a search query out to
// every configured source concurrently and collects the per-platform
// record lists the matcher consumes. A failing source never sinks the
// whole comparison.
package source

import (
	"context"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// Source is one platform's listing feed.
type Source interface {
	// Platform returns the tag stamped on every record this source yields.
	Platform() domain.Platform

	// Search returns the platform's listings for a query. Records are
	// returned already stamped with the source's platform.
	Search(ctx context.Context, query string) ([]domain.RawProduct, error)
}
