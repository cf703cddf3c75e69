package spinner_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/spinner"
)

func TestScoreCandidatesIsolatedVertexTreatsLPAAsZero(t *testing.T) {
	neighbors := []*graph.NeighborEdge{} // isolated: totalLabels == 0
	load := spinner.NewSpeculativeLoad([]int64{10, 10, 10, 10})

	result := spinner.ScoreCandidates(4, neighbors, load, 20, 1.0)

	require.Len(t, result.Score, 4)
	for _, s := range result.Score {
		assert.InDelta(t, result.Score[0], s, 1e-9, "with equal load and no neighbors every candidate should score equally")
	}
}

func TestScoreCandidatesZeroCapacityTreatsPenaltyAsZero(t *testing.T) {
	// No directed edges exist anywhere yet (every vertex isolated), so
	// totalCapacity is 0. Scoring must not divide by it: every
	// candidate should score exactly 0, not NaN.
	neighbors := []*graph.NeighborEdge{}
	load := spinner.NewSpeculativeLoad([]int64{0, 0, 0})

	result := spinner.ScoreCandidates(3, neighbors, load, 0, 1.0)

	require.Len(t, result.Score, 3)
	for _, s := range result.Score {
		assert.False(t, math.IsNaN(s), "score must not be NaN when totalCapacity is 0")
		assert.Equal(t, 0.0, s)
	}
}

func TestScoreCandidatesPrefersLightlyLoadedPartition(t *testing.T) {
	neighbors := []*graph.NeighborEdge{
		{NeighborID: 1, Partition: 0, Weight: 1, Directed: true},
		{NeighborID: 2, Partition: 1, Weight: 1, Directed: true},
	}
	load := spinner.NewSpeculativeLoad([]int64{100, 0})

	result := spinner.ScoreCandidates(2, neighbors, load, 50, 1.0)

	// Partition 1 has equal LPA weight but far lower load, so it
	// should win despite partition 0 having identical neighborhood
	// frequency.
	assert.Equal(t, 1, result.MaxPartition)
}

func TestTallyLocalityOnlyCountsDirectedPresentEdges(t *testing.T) {
	neighbors := []*graph.NeighborEdge{
		{NeighborID: 1, Partition: 0, Directed: true},
		{NeighborID: 2, Partition: 1, Directed: true},
		{NeighborID: 3, Partition: 1, Directed: false}, // reconciliation-added, excluded
	}

	local, cut := spinner.TallyLocality(0, neighbors)

	assert.EqualValues(t, 1, local)
	assert.EqualValues(t, 1, cut)
}

func TestSpeculativeLoadShiftIsLocalUntilRead(t *testing.T) {
	base := []int64{10, 20}
	load := spinner.NewSpeculativeLoad(base)

	load.Shift(0, 1, 5)

	assert.EqualValues(t, 5, load.At(0))
	assert.EqualValues(t, 25, load.At(1))
	// base slice passed in must not have been aliased.
	assert.EqualValues(t, 10, base[0])
	assert.EqualValues(t, []int64{-5, 5}, load.Delta())
}
