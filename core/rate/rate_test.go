package rate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rx    float64
		tx    float64
	}{
		{"plain mbps", "20M/5M", 20, 5},
		{"lowercase units", "20m/5m", 20, 5},
		{"no units means mbps", "10/10", 10, 10},
		{"kilobits", "1000k/500k", 1, 0.5},
		{"gigabits", "1g/2G", 1000, 2000},
		{"fractional", "2.5M/1.25M", 2.5, 1.25},
		{"extra tokens ignored", "20M/5M 40M/10M 30 30/20", 20, 5},
		{"empty is zero", "", 0, 0},
		{"zero over zero", "0/0", 0, 0},
		{"malformed side yields zero", "abc/5M", 0, 5},
		{"both sides malformed", "x/y", 0, 0},
		{"trailing burst suffix ignored", "20M!/5M!", 20, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := ParsePair(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.rx, pair.RxMbps)
			assert.Equal(t, tt.tx, pair.TxMbps)
		})
	}
}

func TestParsePair_Unparseable(t *testing.T) {
	for _, input := range []string{"nonsense", "20M", "default"} {
		_, err := ParsePair(input)
		assert.ErrorIs(t, err, ErrUnparseable, "input %q", input)
	}
}

// Parsing, reformatting, and reparsing must yield the same pair.
func TestParsePair_RoundTrip(t *testing.T) {
	inputs := []string{"20M/5M", "512k/512k", "1.5g/1g", "100/50", "2.25M/2.25M"}

	for _, input := range inputs {
		first, err := ParsePair(input)
		require.NoError(t, err)

		reformatted := fmt.Sprintf("%.2fM/%.2fM", first.RxMbps, first.TxMbps)
		second, err := ParsePair(reformatted)
		require.NoError(t, err)

		assert.InDelta(t, first.RxMbps, second.RxMbps, 0.01)
		assert.InDelta(t, first.TxMbps, second.TxMbps, 0.01)
	}
}

func TestDeriveMax(t *testing.T) {
	// 20*1.15=23, 5*1.15=5.75 floored to 5.
	max := DeriveMax(Pair{RxMbps: 20, TxMbps: 5}, 1.15)
	assert.Equal(t, Pair{RxMbps: 23, TxMbps: 5}, max)
}

func TestDeriveMin(t *testing.T) {
	// 23*0.5=11.5 floored to 11; 5*0.5=2.5 floored to 2.
	min := DeriveMin(Pair{RxMbps: 23, TxMbps: 5}, 0.5)
	assert.Equal(t, Pair{RxMbps: 11, TxMbps: 2}, min)
}

func TestDerive_NeverBelowFloor(t *testing.T) {
	inputs := []Pair{
		{},
		{RxMbps: 0.5, TxMbps: 0.5},
		{RxMbps: 1, TxMbps: 3},
		{RxMbps: 100, TxMbps: 100},
	}

	for _, p := range inputs {
		max := DeriveMax(p, 1.15)
		min := DeriveMin(max, 0.5)

		assert.GreaterOrEqual(t, max.RxMbps, float64(FloorMbps))
		assert.GreaterOrEqual(t, max.TxMbps, float64(FloorMbps))
		assert.GreaterOrEqual(t, min.RxMbps, float64(FloorMbps))
		assert.GreaterOrEqual(t, min.TxMbps, float64(FloorMbps))
		assert.LessOrEqual(t, min.RxMbps, max.RxMbps)
		assert.LessOrEqual(t, min.TxMbps, max.TxMbps)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, Pair{RxMbps: 2, TxMbps: 2}, Clamp(Pair{}))
	assert.Equal(t, Pair{RxMbps: 50, TxMbps: 2}, Clamp(Pair{RxMbps: 50, TxMbps: 1}))
}
