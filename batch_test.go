package r718

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Solver.FinalStage = StageFixedPressure
	return cfg
}

func TestRunBatch(t *testing.T) {
	points := []OperatingPoint{
		{Name: "design"},
		{Name: "warm", TCond: 311.15},
		{Name: "inverted", TEvap: 320.0},
		{Name: "small", CoolingKW: 6},
	}

	results := RunBatch(context.Background(), fastConfig(), points, 2)
	require.Len(t, results, len(points))
	for i, br := range results {
		assert.Equal(t, points[i].Name, br.Point.Name)
	}

	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.NoError(t, results[3].Err)
	assert.ErrorIs(t, results[2].Err, ErrInvalidParameter)

	assert.Equal(t, 311.15, results[1].Result.Conditions.TCond)
	assert.Greater(t, results[1].Result.PCond, results[0].Result.PCond)
	assert.InEpsilon(t, 6000.0, results[3].Result.QEvap, 1e-5)
	assert.NotEqual(t, results[0].Result.RunID, results[3].Result.RunID)
}

func TestRunBatch_SequentialMatchesParallel(t *testing.T) {
	points := []OperatingPoint{{Name: "a"}, {Name: "b", TGen: 368.15}}

	seq := RunBatch(context.Background(), fastConfig(), points, 1)
	par := RunBatch(context.Background(), fastConfig(), points, 0)
	for i := range points {
		require.NoError(t, seq[i].Err)
		require.NoError(t, par[i].Err)
		assert.Equal(t, seq[i].Result.COP, par[i].Result.COP)
		assert.Equal(t, seq[i].Result.States, par[i].Result.States)
	}
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunBatch(ctx, fastConfig(), []OperatingPoint{{Name: "a"}, {Name: "b"}}, 2)
	for _, br := range results {
		assert.ErrorIs(t, br.Err, context.Canceled)
	}
}
