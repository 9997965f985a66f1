package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

type stubSource struct {
	platform domain.Platform
	records  []domain.RawProduct
	err      error
	delay    time.Duration
}

func (s *stubSource) Platform() domain.Platform {
	return s.platform
}

func (s *stubSource) Search(ctx context.Context, _ string) ([]domain.RawProduct, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.records, s.err
}

func TestRunner_FanOut(t *testing.T) {
	t.Parallel()

	zepto := &stubSource{
		platform: domain.PlatformZepto,
		records:  []domain.RawProduct{{Name: "Tata Salt 1kg", Price: 28, Platform: domain.PlatformZepto}},
	}
	blinkit := &stubSource{
		platform: domain.PlatformBlinkit,
		records:  []domain.RawProduct{{Name: "Tata Salt 1 kg", Price: 29, Platform: domain.PlatformBlinkit}},
	}

	r := NewRunner([]Source{zepto, blinkit})
	out, err := r.FanOut(context.Background(), "salt")
	require.NoError(t, err)
	require.Len(t, out, 2)

	// Source order is preserved regardless of completion order.
	assert.Equal(t, domain.PlatformZepto, out[0].Platform)
	assert.Equal(t, domain.PlatformBlinkit, out[1].Platform)
	assert.Len(t, out[0].Products, 1)
}

func TestRunner_IsolatesFailures(t *testing.T) {
	t.Parallel()

	healthy := &stubSource{
		platform: domain.PlatformZepto,
		records:  []domain.RawProduct{{Name: "Tata Salt 1kg", Price: 28, Platform: domain.PlatformZepto}},
	}
	broken := &stubSource{
		platform: domain.PlatformBlinkit,
		err:      errors.New("connection refused"),
	}

	r := NewRunner([]Source{healthy, broken})
	out, err := r.FanOut(context.Background(), "salt")
	require.NoError(t, err, "one healthy source keeps the comparison alive")
	require.Len(t, out, 1)
	assert.Equal(t, domain.PlatformZepto, out[0].Platform)
}

func TestRunner_AllSourcesFailed(t *testing.T) {
	t.Parallel()

	r := NewRunner([]Source{
		&stubSource{platform: domain.PlatformZepto, err: errors.New("refused")},
		&stubSource{platform: domain.PlatformBlinkit, err: errors.New("timeout")},
	})

	_, err := r.FanOut(context.Background(), "salt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all sources failed")
	assert.Contains(t, err.Error(), "zepto")
	assert.Contains(t, err.Error(), "blinkit")
}

func TestRunner_TimeoutCutsSlowSource(t *testing.T) {
	t.Parallel()

	fast := &stubSource{
		platform: domain.PlatformZepto,
		records:  []domain.RawProduct{{Name: "Tata Salt 1kg", Price: 28, Platform: domain.PlatformZepto}},
	}
	slow := &stubSource{
		platform: domain.PlatformBlinkit,
		records:  []domain.RawProduct{{Name: "Tata Salt 1 kg", Price: 29, Platform: domain.PlatformBlinkit}},
		delay:    time.Second,
	}

	r := NewRunner([]Source{fast, slow}, WithTimeout(20*time.Millisecond))
	out, err := r.FanOut(context.Background(), "salt")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.PlatformZepto, out[0].Platform)
}

func TestRunner_EmptySuccessStillCounts(t *testing.T) {
	t.Parallel()

	r := NewRunner([]Source{
		&stubSource{platform: domain.PlatformZepto},
	})

	out, err := r.FanOut(context.Background(), "salt")
	require.NoError(t, err)
	require.Len(t, out, 1, "a source answering with zero records is not a failure")
	assert.Empty(t, out[0].Products)
}

func TestRunner_NoSources(t *testing.T) {
	t.Parallel()

	out, err := NewRunner(nil).FanOut(context.Background(), "salt")
	require.NoError(t, err)
	assert.Empty(t, out)
}
