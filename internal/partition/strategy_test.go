package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"1", Contiguous},
		{"contiguous", Contiguous},
		{"2", ShuffledContiguous},
		{"Shuffled", ShuffledContiguous},
		{"3", RoundRobin},
		{"round-robin", RoundRobin},
		{"round_robin", RoundRobin},
		{"4", PoolManaged},
		{" pool ", PoolManaged},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStrategy_Unknown(t *testing.T) {
	for _, in := range []string{"0", "5", "", "fastest", "-1"} {
		_, err := ParseStrategy(in)
		assert.ErrorIs(t, err, ErrUnknownStrategy, "input %q", in)
	}
}

func TestStrategy_StringRoundTrips(t *testing.T) {
	for _, s := range All {
		assert.True(t, s.Valid())
		parsed, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	assert.False(t, Strategy(0).Valid())
	assert.Equal(t, "Strategy(9)", Strategy(9).String())
}

func TestStrategy_Explicit(t *testing.T) {
	assert.True(t, Contiguous.Explicit())
	assert.True(t, ShuffledContiguous.Explicit())
	assert.True(t, RoundRobin.Explicit())
	assert.False(t, PoolManaged.Explicit())
}
