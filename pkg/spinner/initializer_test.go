package spinner_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/spinner"
)

func TestInitializePreservesPriorPartitionWhenGiven(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	current, next, prob, sig := spinner.Initialize(1, 5, 8, rnd)

	assert.EqualValues(t, 5, current)
	assert.EqualValues(t, 5, next)
	require.Len(t, prob, 8)
	require.Len(t, sig, 8)
	for _, p := range prob {
		assert.InDelta(t, 1.0/8, p, 1e-12)
	}
}

func TestInitializeDrawsUniformWhenNoPriorPartition(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	current, next, _, _ := spinner.Initialize(1, -1, 4, rnd)

	assert.True(t, current >= 0 && int(current) < 4)
	assert.Equal(t, current, next)
}

func TestRescaleDownScaleReassignsRemovedPartitionMembers(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	newCurrent, prob, sig := spinner.Rescale(3, 4, 3, rnd) // partition 3 removed, k: 4 -> 3

	assert.True(t, int(newCurrent) < 3)
	require.Len(t, prob, 3)
	require.Len(t, sig, 3)
}

func TestRescaleDownScaleLeavesSurvivorsAlone(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	newCurrent, _, _ := spinner.Rescale(1, 4, 3, rnd)
	assert.EqualValues(t, 1, newCurrent)
}

func TestRescaleUpScaleWidensLAVectors(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	_, prob, sig := spinner.Rescale(0, 3, 5, rnd)
	assert.Len(t, prob, 5)
	assert.Len(t, sig, 5)
}
