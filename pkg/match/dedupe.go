package match

import (
	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// DedupeGroups merges near-duplicate canonical groups left behind by the
// greedy grouping pass. Each surviving group absorbs every later group
// whose canonical name clears cfg.DedupeThreshold; the earlier group
// wins conflicts. Relative order of survivors is preserved.
func DedupeGroups(groups []domain.ProductGroup, cfg Config) []domain.ProductGroup {
	if len(groups) < 2 {
		return groups
	}

	merged := make([]bool, len(groups))
	out := make([]domain.ProductGroup, 0, len(groups))

	for i := range groups {
		if merged[i] {
			continue
		}
		g := groups[i]

		for j := i + 1; j < len(groups); j++ {
			if merged[j] {
				continue
			}
			if Similarity(g.Name, groups[j].Name, cfg) < cfg.DedupeThreshold {
				continue
			}
			absorb(&g, &groups[j])
			merged[j] = true
		}

		out = append(out, g)
	}

	return out
}

// absorb unions src's platform entries into dst. dst's entries win on
// conflicting platform keys; pre-dedup a platform appears in one group
// only, so conflicts indicate upstream damage and the first value is
// kept rather than guessed over.
func absorb(dst, src *domain.ProductGroup) {
	for platform, name := range src.OriginalNames {
		if _, exists := dst.OriginalNames[platform]; !exists {
			dst.OriginalNames[platform] = name
		}
	}
	for platform, entry := range src.Platforms {
		if _, exists := dst.Platforms[platform]; !exists {
			dst.Platforms[platform] = entry
		}
	}

	if dst.Image == "" {
		dst.Image = src.Image
	}

	if src.SimilarityScore != nil {
		if dst.SimilarityScore == nil || *src.SimilarityScore > *dst.SimilarityScore {
			dst.SimilarityScore = src.SimilarityScore
		}
	}
}
