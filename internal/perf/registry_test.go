package perf_test

import (
	"io"
	"slices"
	"testing"

	"github.com/neox5/tlbreport/internal/perf"
	"github.com/neox5/tlbreport/internal/perf/perftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRunsConfigOnce(t *testing.T) {
	reg := perf.NewRegistry()
	calls := 0
	require.NoError(t, reg.Register("dtlb", func(a *perf.EventAttr) {
		calls++
		a.Type = 3
		a.Config = 0x10003
	}))

	d, ok := reg.Lookup("dtlb")
	require.True(t, ok)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint32(3), d.Attr().Type)
	assert.Equal(t, uint64(0x10003), d.Attr().Config)
	assert.Equal(t, perf.StatusRegistered, d.Status())
	assert.Zero(t, d.ID())
}

func TestConfigNotRerunAcrossWindows(t *testing.T) {
	reg := perf.NewRegistry()
	calls := 0
	require.NoError(t, reg.Register("dtlb", func(a *perf.EventAttr) {
		calls++
		a.Type = 3
		a.Config = 0x10003
	}))

	fac := perftest.New()
	s := perf.NewSession(reg, perf.WithFacility(fac), perf.WithOutput(io.Discard))
	for range 3 {
		require.Equal(t, 1, s.Initialize())
		s.Finalize()
	}

	assert.Equal(t, 1, calls)
	opened := fac.Opened()
	require.Len(t, opened, 3)
	for _, c := range opened {
		assert.Equal(t, uint64(0x10003), c.Attr.Config)
	}
}

func TestRegisterRejects(t *testing.T) {
	reg := perf.NewRegistry()
	noop := func(*perf.EventAttr) {}

	assert.ErrorIs(t, reg.Register("", noop), perf.ErrInvalidDescriptor)
	assert.ErrorIs(t, reg.Register("x", nil), perf.ErrInvalidDescriptor)

	require.NoError(t, reg.Register("x", noop))
	assert.ErrorIs(t, reg.Register("x", noop), perf.ErrDuplicateName)
	assert.Equal(t, 1, reg.Len())
}

func TestAllKeepsRegistrationOrder(t *testing.T) {
	reg := perf.NewRegistry()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		require.NoError(t, reg.Register(n, func(*perf.EventAttr) {}))
	}

	var got []string
	for d := range reg.All() {
		got = append(got, d.Name())
	}
	assert.Equal(t, names, got)

	// Early exit from the iterator.
	var first []string
	for d := range reg.All() {
		first = append(first, d.Name())
		break
	}
	assert.Equal(t, []string{"c"}, first)
	assert.True(t, slices.Equal(names, got))
}

func TestParseMode(t *testing.T) {
	m, err := perf.ParseMode("grouped")
	require.NoError(t, err)
	assert.Equal(t, perf.ModeGrouped, m)

	m, err = perf.ParseMode("independent")
	require.NoError(t, err)
	assert.Equal(t, perf.ModeIndependent, m)

	m, err = perf.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, perf.DefaultMode, m)

	_, err = perf.ParseMode("both")
	assert.Error(t, err)
}
