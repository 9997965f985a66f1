package match

import (
	"fmt"
	"log/slog"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// PlatformRecords is one platform's product list in the order the
// caller supplies platforms. Matching iterates this order, so the same
// input always produces the same groups.
type PlatformRecords struct {
	Platform domain.Platform
	Products []domain.RawProduct
}

// GroupAcrossPlatforms folds per-platform product lists into canonical
// product groups. A record either joins the best existing group from
// another platform whose similarity clears cfg.SimilarityThreshold, or
// seeds a new singleton group. Each raw record is consumed at most once
// per run; a group holds at most one record per platform.
//
// The assignment is greedy and order-dependent rather than a global
// optimum: intentional, interactive-latency behavior inherited from the
// product, pinned by tests. On malformed config the run performs no
// matching and returns an empty group list with the error.
func GroupAcrossPlatforms(
	records []PlatformRecords,
	cfg Config,
	log *slog.Logger,
) (groups []domain.ProductGroup, err error) {
	if log == nil {
		log = slog.Default()
	}

	if cfgErr := cfg.Validate(); cfgErr != nil {
		return []domain.ProductGroup{}, fmt.Errorf("invalid matching config: %w", cfgErr)
	}

	// The matcher is total over well-typed input, but a grouping run
	// must never surface a partial group list; a panic here reports as
	// an error with no groups.
	defer func() {
		if r := recover(); r != nil {
			groups = []domain.ProductGroup{}
			err = fmt.Errorf("grouping failed: %v", r)
		}
	}()

	usable := dropUntagged(records, log)

	if countPlatforms(usable) < 2 {
		return singletonGroups(usable), nil
	}

	used := make(map[domain.RecordKey]struct{})
	groups = []domain.ProductGroup{}

	for _, pr := range usable {
		for i := range pr.Products {
			rec := &pr.Products[i]
			key := rec.Key()
			if _, seen := used[key]; seen {
				continue
			}
			used[key] = struct{}{}

			qty := ExtractQuantity(rec.Name, rec.Description)
			stripped := NormalizeStrict(rec.Name)

			if gi, score, ok := bestGroup(groups, rec.Platform, stripped, qty, cfg); ok {
				attach(&groups[gi], rec, qty, score)
				continue
			}

			groups = append(groups, newGroup(rec, qty))
		}
	}

	return groups, nil
}

// bestGroup finds the highest-similarity group the record may join.
// Groups already holding the record's platform are skipped. Similarity
// is the maximum over every original name already in the group, not just
// the canonical name, so canonical-name drift cannot hide a match.
// Incompatible quantities disqualify a group outright; compatible,
// known-on-both-sides quantities boost the candidate's rank.
func bestGroup(
	groups []domain.ProductGroup,
	platform domain.Platform,
	strippedName string,
	qty *domain.Quantity,
	cfg Config,
) (index int, score float64, ok bool) {
	bestRank := 0.0

	for gi := range groups {
		g := &groups[gi]
		if _, present := g.Platforms[platform]; present {
			continue
		}

		sim := 0.0
		for _, original := range g.OriginalNames {
			if s := Similarity(strippedName, NormalizeStrict(original), cfg); s > sim {
				sim = s
			}
		}
		if sim < cfg.SimilarityThreshold {
			continue
		}

		compatible, known := groupQuantityCheck(g, qty, cfg)
		if !compatible {
			continue
		}

		rank := sim
		if known {
			rank = min(1.0, sim+cfg.QuantityMatchBoost)
		}

		// Strictly-greater keeps the first-encountered group on ties.
		if rank > bestRank {
			bestRank = rank
			index = gi
			score = sim
			ok = true
		}
	}

	return index, score, ok
}

// groupQuantityCheck compares the record's quantity against every member
// of the group. compatible is false as soon as any member disagrees;
// known is true only when the record and at least one member both carry
// quantity data.
func groupQuantityCheck(
	g *domain.ProductGroup,
	qty *domain.Quantity,
	cfg Config,
) (compatible, known bool) {
	compatible = true
	if len(g.Platforms) == 0 {
		return QuantitiesCompatible(qty, nil, cfg), false
	}

	for _, entry := range g.Platforms {
		if !QuantitiesCompatible(qty, entry.Quantity, cfg) {
			return false, known
		}
		if qty != nil && entry.Quantity != nil {
			known = true
		}
	}
	return compatible, known
}

// attach adds the record as the group's entry for its platform.
func attach(g *domain.ProductGroup, rec *domain.RawProduct, qty *domain.Quantity, score float64) {
	g.OriginalNames[rec.Platform] = rec.Name
	g.Platforms[rec.Platform] = domain.PlatformEntry{
		Price:        rec.Price,
		Quantity:     qty,
		DeliveryTime: rec.DeliveryTime,
		Link:         rec.Link,
	}
	if g.Image == "" {
		g.Image = rec.Image
	}
	if g.SimilarityScore == nil || score > *g.SimilarityScore {
		g.SimilarityScore = &score
	}
}

// newGroup seeds a singleton group from an unmatched record. The
// canonical name is the title-cased normalized name of the seed record;
// the similarity score stays nil until a later record matches in.
func newGroup(rec *domain.RawProduct, qty *domain.Quantity) domain.ProductGroup {
	return domain.ProductGroup{
		Name:  TitleCase(Normalize(rec.Name)),
		Image: rec.Image,
		OriginalNames: map[domain.Platform]string{
			rec.Platform: rec.Name,
		},
		Platforms: map[domain.Platform]domain.PlatformEntry{
			rec.Platform: {
				Price:        rec.Price,
				Quantity:     qty,
				DeliveryTime: rec.DeliveryTime,
				Link:         rec.Link,
			},
		},
	}
}

// dropUntagged filters out records without a usable platform tag,
// logging each skip. Records are never regrouped under a guessed tag.
func dropUntagged(records []PlatformRecords, log *slog.Logger) []PlatformRecords {
	out := make([]PlatformRecords, 0, len(records))
	for _, pr := range records {
		kept := make([]domain.RawProduct, 0, len(pr.Products))
		for _, p := range pr.Products {
			if !p.Platform.Valid() {
				log.Warn("skipping record without platform tag",
					"name", p.Name,
					"list_platform", string(pr.Platform),
				)
				continue
			}
			kept = append(kept, p)
		}
		out = append(out, PlatformRecords{Platform: pr.Platform, Products: kept})
	}
	return out
}

// countPlatforms counts distinct platforms that contributed at least one
// usable record.
func countPlatforms(records []PlatformRecords) int {
	seen := make(map[domain.Platform]struct{})
	for _, pr := range records {
		for _, p := range pr.Products {
			seen[p.Platform] = struct{}{}
		}
	}
	return len(seen)
}

// singletonGroups wraps every record as its own group. Used when fewer
// than two platforms contributed records and there is nothing to match
// against.
func singletonGroups(records []PlatformRecords) []domain.ProductGroup {
	groups := []domain.ProductGroup{}
	used := make(map[domain.RecordKey]struct{})

	for _, pr := range records {
		for i := range pr.Products {
			rec := &pr.Products[i]
			key := rec.Key()
			if _, seen := used[key]; seen {
				continue
			}
			used[key] = struct{}{}
			groups = append(groups, newGroup(rec, ExtractQuantity(rec.Name, rec.Description)))
		}
	}

	return groups
}
