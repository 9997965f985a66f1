package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func record(platform domain.Platform, name string, price float64) domain.RawProduct {
	return domain.RawProduct{Name: name, Price: price, Platform: platform}
}

func TestGroupAcrossPlatforms_MergesSameProduct(t *testing.T) {
	t.Parallel()

	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			record(domain.PlatformZepto, "Aashirvaad Atta (5 kg)", 250),
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			record(domain.PlatformBlinkit, "Aashirvaad Atta 5kg Pack", 245),
		}},
	}

	groups, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	require.NotNil(t, g.SimilarityScore)
	assert.GreaterOrEqual(t, *g.SimilarityScore, 0.6)

	require.Contains(t, g.Platforms, domain.PlatformZepto)
	require.Contains(t, g.Platforms, domain.PlatformBlinkit)
	assert.Equal(t, 250.0, g.Platforms[domain.PlatformZepto].Price)
	assert.Equal(t, 245.0, g.Platforms[domain.PlatformBlinkit].Price)

	for _, p := range []domain.Platform{domain.PlatformZepto, domain.PlatformBlinkit} {
		q := g.Platforms[p].Quantity
		require.NotNil(t, q, "quantity for %s", p)
		assert.Equal(t, domain.UnitKg, q.Unit)
		assert.InDelta(t, 5.0, q.Amount, 0.0001)
	}
}

func TestGroupAcrossPlatforms_KeepsDistinctProductsApart(t *testing.T) {
	t.Parallel()

	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			record(domain.PlatformZepto, "Tata Salt 1kg", 28),
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			record(domain.PlatformBlinkit, "Organic Honey 500g", 220),
		}},
	}

	groups, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Nil(t, g.SimilarityScore)
		assert.Len(t, g.Platforms, 1)
	}
}

func TestGroupAcrossPlatforms_QuantityToleranceDecides(t *testing.T) {
	t.Parallel()

	a := record(domain.PlatformZepto, "Milk Bikis", 30)
	a.Description = "250 g"
	b := record(domain.PlatformBlinkit, "Milk Bikis", 32)
	b.Description = "1 kg"
	c := record(domain.PlatformInstamart, "Milk Bikis", 31)
	c.Description = "400 g"

	input := func() []PlatformRecords {
		return []PlatformRecords{
			{Platform: domain.PlatformZepto, Products: []domain.RawProduct{a}},
			{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{b}},
			{Platform: domain.PlatformInstamart, Products: []domain.RawProduct{c}},
		}
	}

	// Default mode: 250g vs 1kg is 4x apart, beyond the 2.0 ratio, so
	// identical names still refuse to merge. 400g vs 250g is 1.6x and
	// joins the 250g group.
	groups, err := GroupAcrossPlatforms(input(), DefaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	first := groups[0]
	require.Contains(t, first.Platforms, domain.PlatformZepto)
	require.Contains(t, first.Platforms, domain.PlatformInstamart)
	assert.NotContains(t, first.Platforms, domain.PlatformBlinkit)

	second := groups[1]
	assert.Contains(t, second.Platforms, domain.PlatformBlinkit)
	assert.Nil(t, second.SimilarityScore)

	// Strict mode tightens the ratio to 1.1: nothing merges.
	strictGroups, err := GroupAcrossPlatforms(input(), DefaultConfig().Strict(), nil)
	require.NoError(t, err)
	assert.Len(t, strictGroups, 3)
}

func TestGroupAcrossPlatforms_StrictRequiresQuantity(t *testing.T) {
	t.Parallel()

	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			record(domain.PlatformZepto, "Organic Honey", 210),
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			record(domain.PlatformBlinkit, "Organic Honey", 220),
		}},
	}

	// Default mode: missing quantity data never blocks a name match.
	groups, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	// Strict mode: unknown quantities disqualify the match.
	strictGroups, err := GroupAcrossPlatforms(records, DefaultConfig().Strict(), nil)
	require.NoError(t, err)
	assert.Len(t, strictGroups, 2)
}

func TestGroupAcrossPlatforms_SinglePlatformShortCircuits(t *testing.T) {
	t.Parallel()

	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			record(domain.PlatformZepto, "Tata Salt 1kg", 28),
			record(domain.PlatformZepto, "Tata Salt 1kg Iodised", 30),
		}},
	}

	groups, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 2, "single platform wraps every record as a singleton")
	for _, g := range groups {
		assert.Nil(t, g.SimilarityScore)
	}
}

func TestGroupAcrossPlatforms_RecordConsumedAtMostOnce(t *testing.T) {
	t.Parallel()

	// The same Zepto record appears in two supplied lists; it must
	// surface exactly once across all groups.
	dup := record(domain.PlatformZepto, "Tata Salt 1kg", 28)
	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{dup}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			record(domain.PlatformBlinkit, "Tata Salt 1 kg", 29),
		}},
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{dup}},
	}

	groups, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)

	zeptoEntries := 0
	for _, g := range groups {
		if _, ok := g.Platforms[domain.PlatformZepto]; ok {
			zeptoEntries++
		}
	}
	assert.Equal(t, 1, zeptoEntries, "a record key may be consumed at most once")
}

func TestGroupAcrossPlatforms_SkipsUntaggedRecords(t *testing.T) {
	t.Parallel()

	untagged := domain.RawProduct{Name: "Mystery Atta 5kg", Price: 199}
	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			untagged,
			record(domain.PlatformZepto, "Tata Salt 1kg", 28),
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			record(domain.PlatformBlinkit, "Tata Salt 1 kg", 29),
		}},
	}

	groups, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)

	for _, g := range groups {
		assert.NotContains(t, g.OriginalNames, domain.Platform(""),
			"untagged records must never be grouped")
	}
	require.Len(t, groups, 1)
}

func TestGroupAcrossPlatforms_GreedyOrderDependence(t *testing.T) {
	t.Parallel()

	// Two Blinkit variants both clear the threshold against the lone
	// Zepto record; whichever the iteration reaches first wins the
	// group and the other becomes a singleton. This order dependence is
	// an intentional property of the greedy assignment.
	z := record(domain.PlatformZepto, "Amul Butter 500g", 250)
	b1 := record(domain.PlatformBlinkit, "Amul Butter 500 g Carton", 255)
	b2 := record(domain.PlatformBlinkit, "Amul Butter 500g Pack", 260)

	run := func(first, second domain.RawProduct) domain.ProductGroup {
		groups, err := GroupAcrossPlatforms([]PlatformRecords{
			{Platform: domain.PlatformZepto, Products: []domain.RawProduct{z}},
			{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{first, second}},
		}, DefaultConfig(), nil)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		return groups[0]
	}

	assert.Equal(t, b1.Name, run(b1, b2).OriginalNames[domain.PlatformBlinkit])
	assert.Equal(t, b2.Name, run(b2, b1).OriginalNames[domain.PlatformBlinkit])
}

func TestGroupAcrossPlatforms_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SimilarityThreshold = -1

	groups, err := GroupAcrossPlatforms([]PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			record(domain.PlatformZepto, "Tata Salt 1kg", 28),
		}},
	}, cfg, nil)

	require.Error(t, err)
	assert.Empty(t, groups, "invalid config must not yield partial groups")
}

func TestGroupAcrossPlatforms_Deterministic(t *testing.T) {
	t.Parallel()

	records := []PlatformRecords{
		{Platform: domain.PlatformZepto, Products: []domain.RawProduct{
			record(domain.PlatformZepto, "Aashirvaad Atta (5 kg)", 250),
			record(domain.PlatformZepto, "Tata Salt 1kg", 28),
		}},
		{Platform: domain.PlatformBlinkit, Products: []domain.RawProduct{
			record(domain.PlatformBlinkit, "Aashirvaad Atta 5kg Pack", 245),
			record(domain.PlatformBlinkit, "Organic Honey 500g", 220),
		}},
	}

	first, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)
	second, err := GroupAcrossPlatforms(records, DefaultConfig(), nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same input must produce identical output")
}
