package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestCryptoSource_Float64_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestSeededSource_Deterministic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a := dice.NewSeededSource(seed)
		b := dice.NewSeededSource(seed)
		for i := 0; i < 20; i++ {
			assert.Equal(rt, a.Intn(100), b.Intn(100))
			assert.Equal(rt, a.Float64(), b.Float64())
		}
	})
}

func TestNewSeed(t *testing.T) {
	_, err := dice.NewSeed()
	require.NoError(t, err)
}

func TestChance_Bounds_ConsumeNoDraw(t *testing.T) {
	src := testutil.NewScriptedSource()
	assert.False(t, dice.Chance(src, 0))
	assert.True(t, dice.Chance(src, 1))
	assert.Equal(t, 0, src.Consumed())
}

func TestChance_ComparesDraw(t *testing.T) {
	src := testutil.NewScriptedSource().Floats(0.69, 0.7)
	assert.True(t, dice.Chance(src, 0.7))
	assert.False(t, dice.Chance(src, 0.7))
}

func TestPick_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { dice.Pick(dice.NewCryptoSource(), 0) })
}

func TestWeighted_Buckets(t *testing.T) {
	weights := []float64{0.3, 0.2, 0.2, 0.2, 0.1}
	tests := []struct {
		draw float64
		want int
	}{
		{0.0, 0},
		{0.29, 0},
		{0.3, 1},
		{0.49, 1},
		{0.5, 2},
		{0.7, 3},
		{0.89, 3},
		{0.9, 4},
		{0.999, 4},
	}
	for _, tc := range tests {
		src := testutil.NewScriptedSource().Floats(tc.draw)
		assert.Equal(t, tc.want, dice.Weighted(src, weights), "draw=%v", tc.draw)
	}
}

func TestWeighted_Property_NeverPicksZeroWeight(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		weights := rapid.SliceOfN(rapid.Float64Range(0, 5), 1, 8).Draw(rt, "weights")
		weights = append(weights, 1)
		draw := rapid.Float64Range(0, 0.999999).Draw(rt, "draw")
		idx := dice.Weighted(testutil.NewScriptedSource().Floats(draw), weights)
		require.GreaterOrEqual(rt, idx, 0)
		require.Less(rt, idx, len(weights))
		assert.Greater(rt, weights[idx], 0.0)
	})
}

func TestWeighted_PanicsOnInvalidWeights(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { dice.Weighted(src, []float64{0, 0}) })
	assert.Panics(t, func() { dice.Weighted(src, []float64{1, -1}) })
}

func TestLoggedSource_LogsDraws(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := dice.NewLoggedSource(testutil.NewScriptedSource().Ints(4).Floats(0.25), zap.New(core))

	assert.Equal(t, 4, src.Intn(6))
	assert.Equal(t, 0.25, src.Float64())

	entries := logs.FilterMessage("dice draw").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(4), entries[0].ContextMap()["result"])
	assert.Equal(t, 0.25, entries[1].ContextMap()["result"])
}
