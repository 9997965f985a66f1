package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

func TestPlatformValid(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.PlatformZepto.Valid())
	assert.True(t, domain.Platform("amazon_fresh").Valid(), "platforms are an open set")
	assert.False(t, domain.Platform("").Valid())
	assert.False(t, domain.Platform("   ").Valid())
}

func TestQuantityDisplay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		q    domain.Quantity
		want string
	}{
		{"weight", domain.Quantity{Amount: 5, Unit: domain.UnitKg}, "5 kg"},
		{"fractional weight", domain.Quantity{Amount: 0.25, Unit: domain.UnitKg}, "0.25 kg"},
		{"volume keeps its label", domain.Quantity{Amount: 6, Unit: domain.UnitLtr}, "6 ltr"},
		{"count", domain.Quantity{Amount: 2, Unit: domain.UnitPack}, "2 pack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.q.Display())
		})
	}
}

func TestQuantityJSONRoundTrip(t *testing.T) {
	t.Parallel()

	quantities := []domain.Quantity{
		{Amount: 5, Unit: domain.UnitKg},
		{Amount: 0.5, Unit: domain.UnitLtr},
		{Amount: 12, Unit: domain.UnitPcs},
	}

	for _, q := range quantities {
		data, err := json.Marshal(q)
		require.NoError(t, err)

		var got domain.Quantity
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, q, got)
	}
}

func TestParseQuantity_Rejects(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "5", "kg", "five kg", "5 parsec", "5 kg extra"} {
		_, err := domain.ParseQuantity(s)
		assert.Error(t, err, "input %q", s)
	}
}
