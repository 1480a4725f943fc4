package sim_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twofortyeight/engine/pkg/eval"
	"github.com/twofortyeight/engine/pkg/sim"
)

func TestRunParallelAggregatesAcrossThreads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping self-play batch")
	}

	ctx := context.Background()
	result := sim.RunParallel(ctx, nil, eval.Preset("standard"), 8, 4, 0)

	assert.Equal(t, 8, result.GamesPlayed)
	assert.Greater(t, result.BestScore, uint64(0)) // a heuristic player merges at least once in 8 games
}

func TestRunParallelSingleThreadMatchesGameCount(t *testing.T) {
	ctx := context.Background()
	result := sim.RunParallel(ctx, nil, eval.Preset("standard"), 3, 1, 0)
	assert.Equal(t, 3, result.GamesPlayed)
}

func TestTunerRunImproveOrStall(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping genetic tuning run")
	}

	ctx := context.Background()
	tuner := sim.New(nil, sim.Options{
		PopulationSize:      6,
		Generations:         3,
		GamesPerEvaluation:  2,
		NumThreads:          2,
		ElitePercentage:     0.2,
		InitialMutationRate: 0.2,
	}, 42)

	var generations []sim.Generation
	best := tuner.Run(ctx, func(g sim.Generation) {
		generations = append(generations, g)
	})

	require.Len(t, generations, 3)
	assert.NotEmpty(t, best.Params)
	assert.True(t, generations[len(generations)-1].Stopped)
}

func TestWritePopulationCSVAndBestFiles(t *testing.T) {
	dir := t.TempDir()

	pop := []sim.Record{
		{Params: eval.Params{"emptyTiles": 600, "monotonicity": 400}, AvgScore: 1234.5, MaxScore: 2048, GamesPlayed: 10},
	}

	csvPath := filepath.Join(dir, "gen0.csv")
	require.NoError(t, sim.WritePopulationCSV(csvPath, 0, pop))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "generation 0")
	assert.Contains(t, string(data), "emptyTiles:weight")

	textPath := filepath.Join(dir, "best.txt")
	require.NoError(t, sim.WriteBestText(textPath, pop[0]))
	text, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "avgScore=1234.5")

	jsonPath := filepath.Join(dir, "best.json")
	require.NoError(t, sim.WriteBestJSON(jsonPath, pop[0]))
	raw, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var decoded eval.Params
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, pop[0].Params["emptyTiles"], decoded["emptyTiles"])
}
