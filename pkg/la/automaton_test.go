package la_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/la"
)

func TestSelectActionArgmaxShortCircuit(t *testing.T) {
	p := []float64{0.0, 0.0, 1.0 - 1e-8, 0.0}
	rnd := rand.New(rand.NewSource(1))
	got := la.SelectAction(p, rnd)
	assert.Equal(t, 2, got)
}

func TestSelectActionMarginalFrequencyMatchesP(t *testing.T) {
	p := []float64{0.1, 0.4, 0.2, 0.3}
	rnd := rand.New(rand.NewSource(42))

	const samples = 20000
	counts := make([]int, len(p))
	for i := 0; i < samples; i++ {
		counts[la.SelectAction(p, rnd)]++
	}

	for i, want := range p {
		got := float64(counts[i]) / samples
		assert.InDelta(t, want, got, 0.03, "action %d frequency drifted", i)
	}
}

func TestSelectActionTwoElementSimplex(t *testing.T) {
	p := []float64{0.5, 0.5}
	rnd := rand.New(rand.NewSource(7))
	seenZero, seenOne := false, false
	for i := 0; i < 200; i++ {
		switch la.SelectAction(p, rnd) {
		case 0:
			seenZero = true
		case 1:
			seenOne = true
		}
	}
	require.True(t, seenZero)
	require.True(t, seenOne)
}

func TestUpdateRewardPenaltyPreservesSimplex(t *testing.T) {
	p := []float64{0.25, 0.25, 0.25, 0.25}
	sigma := []float64{1.0, 0.0, 0.0, 0.0}

	la.UpdateRewardPenalty(p, sigma, 10, 290, 0.98, 0.02)

	sum := 0.0
	for _, v := range p {
		require.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for _, v := range sigma {
		assert.Zero(t, v)
	}
}

func TestUpdateRewardPenaltyRewardsHighestSignal(t *testing.T) {
	p := []float64{0.25, 0.25, 0.25, 0.25}
	sigma := []float64{5.0, 0.0, 0.0, 0.0}

	la.UpdateRewardPenalty(p, sigma, 50, 290, 0.98, 0.02)

	assert.Greater(t, p[0], 0.25)
	for i := 1; i < len(p); i++ {
		assert.Less(t, p[i], 0.25)
	}
}

func TestUpdateRewardPenaltyZeroSignalStillPreservesSimplex(t *testing.T) {
	p := []float64{0.4, 0.3, 0.2, 0.1}
	sigma := []float64{0, 0, 0, 0}

	la.UpdateRewardPenalty(p, sigma, 1, 290, 0.98, 0.02)

	// An all-zero signal puts every index in the positive group (s >=
	// mean when mean is 0 too) with sum 0, so the positive update must
	// be skipped entirely rather than applying a uniform reward share.
	assert.Equal(t, []float64{0.4, 0.3, 0.2, 0.1}, p)
}
