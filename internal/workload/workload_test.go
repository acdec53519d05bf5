package workload

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neox5/tlbreport/internal/config"
)

const testSeed uint64 = 12345

func TestMain(m *testing.M) {
	seed := testSeed
	InitSeed(&seed)
	os.Exit(m.Run())
}

func smallConfig() config.WorkloadConfig {
	return config.WorkloadConfig{
		SizeMB:      1,
		Stride:      os.Getpagesize(),
		WindowPages: 8,
		Duration:    30 * time.Millisecond,
		Interval:    5 * time.Millisecond,
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.WorkloadConfig)
	}{
		{"zero size", func(c *config.WorkloadConfig) { c.SizeMB = 0 }},
		{"zero stride", func(c *config.WorkloadConfig) { c.Stride = 0 }},
		{"zero duration", func(c *config.WorkloadConfig) { c.Duration = 0 }},
		{"zero interval", func(c *config.WorkloadConfig) { c.Interval = 0 }},
		{"window too large", func(c *config.WorkloadConfig) { c.WindowPages = 1 << 20 }},
		{"empty window", func(c *config.WorkloadConfig) { c.WindowPages = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	w, err := New(smallConfig())
	require.NoError(t, err)

	stats, err := w.Run(context.Background())
	require.NoError(t, err)

	assert.NotZero(t, stats.Touches)
	assert.Zero(t, stats.Touches%8, "every pass touches the whole window")
	assert.GreaterOrEqual(t, stats.Windows, uint64(1))
	assert.GreaterOrEqual(t, stats.Elapsed, 30*time.Millisecond)
}

func TestRunCancelled(t *testing.T) {
	w, err := New(smallConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Touches)
}

func TestWalkStride(t *testing.T) {
	cfg := smallConfig()
	cfg.Stride = 2 * os.Getpagesize()
	w, err := New(cfg)
	require.NoError(t, err)

	touches, _ := w.walk(0)
	assert.Equal(t, uint64(4), touches)

	first := w.windowStart()
	assert.GreaterOrEqual(t, first, 0)
	assert.LessOrEqual(t, first, w.pages-cfg.WindowPages)
}

func TestWindowMoves(t *testing.T) {
	cfg := config.WorkloadConfig{
		SizeMB:      16,
		Stride:      os.Getpagesize(),
		WindowPages: 16,
		Duration:    200 * time.Millisecond,
		Interval:    2 * time.Millisecond,
	}
	w, err := New(cfg)
	require.NoError(t, err)

	stats, err := w.Run(context.Background())
	require.NoError(t, err)

	assert.NotZero(t, stats.Updates, "the simv value received draws")
	assert.Greater(t, stats.Windows, uint64(1), "the hot window moved")
	assert.LessOrEqual(t, stats.Windows, stats.Updates+1)
}

func TestRunOnce(t *testing.T) {
	w, err := New(smallConfig())
	require.NoError(t, err)

	_, err = w.Run(context.Background())
	require.NoError(t, err)

	_, err = w.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRun)
}

func TestInitSeedKeepsFirst(t *testing.T) {
	other := testSeed + 1
	assert.Equal(t, testSeed, InitSeed(&other))
	assert.Equal(t, testSeed, InitSeed(nil))

	w, err := New(smallConfig())
	require.NoError(t, err)
	assert.Equal(t, testSeed, w.Seed())
}
