package tdl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twofortyeight/engine/pkg/ntuple"
	"github.com/twofortyeight/engine/pkg/tdl"
)

func TestTrainRunsRequestedEpisodes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping self-play training")
	}

	ctx := context.Background()
	network := ntuple.NewNetwork([][]int{{0, 1, 2}, {4, 5, 6}})
	trainer := tdl.New(nil, network, 0.01)

	trainer.Train(ctx, tdl.Options{Episodes: 20, NumThreads: 2, Seed: 7})

	assert.Same(t, network, trainer.Network())
}

func TestTrainRunsWithOneAndThreeThreads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping self-play training")
	}

	ctx := context.Background()

	for _, threads := range []int{1, 3} {
		network := ntuple.NewNetwork([][]int{{0, 1, 2, 3}})
		trainer := tdl.New(nil, network, 0.01)
		trainer.Train(ctx, tdl.Options{Episodes: 10, NumThreads: threads, Seed: 1})
	}
}
