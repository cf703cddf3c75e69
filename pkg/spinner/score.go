package spinner

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/okapi-spinner/spinner/pkg/graph"
)

// ScoreResult is one vertex's score-and-propose output for a single
// superstep.
type ScoreResult struct {
	Score        []float64
	MaxPartition int
	TotalLabels  float64
}

// ScoreCandidates computes score[i] for every candidate partition
// i in [0,k) from the vertex's cached neighbor labels and the shared
// load snapshot. neighbors is the full edge list; only entries with a
// known partition (>= 0) contribute to the LPA term, matching "totalLabels
// == 0 for a vertex -> lpa treated as zero" from the arithmetic
// degeneracy fallbacks.
func ScoreCandidates(k int, neighbors []*graph.NeighborEdge, load *SpeculativeLoad, totalCapacity int64, lambda float64) ScoreResult {
	partitionFrequency := make([]float64, k)
	var totalLabels float64
	for _, n := range neighbors {
		if n.Partition < 0 || int(n.Partition) >= k {
			continue
		}
		partitionFrequency[n.Partition] += float64(n.Weight)
		totalLabels += float64(n.Weight)
	}

	lpa := make([]float64, k)
	if totalLabels > 0 {
		for i := range lpa {
			lpa[i] = partitionFrequency[i] / totalLabels
		}
	}

	// totalCapacity == 0 means no directed edges exist anywhere in the
	// graph yet (e.g. every vertex is isolated): there is no capacity
	// to divide by, so the penalty term is treated as zero for every
	// candidate rather than normalized, the same way a vertex with no
	// labeled neighbors treats its LPA term as zero above.
	pf := make([]float64, k)
	if totalCapacity > 0 {
		for i := range pf {
			w := ceilTo3(float64(load.At(i)) / float64(totalCapacity))
			pf[i] = lambda - w
		}
		if floats.Min(pf) < 0 {
			minMaxNormalize(pf)
		}
		sumNormalize(pf)
	}

	score := make([]float64, k)
	for i := range score {
		score[i] = (pf[i] + lpa[i]) / 2
	}

	return ScoreResult{
		Score:        score,
		MaxPartition: argmaxFirst(score),
		TotalLabels:  totalLabels,
	}
}

// TallyLocality counts, over the vertex's directed-present edges, how
// many share currentPartition with the neighbor's cached label (local)
// versus not (cut).
func TallyLocality(currentPartition int16, neighbors []*graph.NeighborEdge) (local, cut int64) {
	for _, n := range neighbors {
		if !n.Directed {
			continue
		}
		if n.Partition == currentPartition {
			local++
		} else {
			cut++
		}
	}
	return
}

// ceilTo3 rounds x up to 3 decimal places, the granularity the
// capacity penalty is computed at.
func ceilTo3(x float64) float64 {
	return math.Ceil(x*1000) / 1000
}

func argmaxFirst(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// minMaxNormalize rescales v in place to [0,1] using its own min/max.
// A degenerate (constant) vector maps to all-zero rather than dividing
// by zero.
func minMaxNormalize(v []float64) {
	lo, hi := floats.Min(v), floats.Max(v)
	if hi-lo == 0 {
		for i := range v {
			v[i] = 0
		}
		return
	}
	for i, x := range v {
		v[i] = (x - lo) / (hi - lo)
	}
}

// sumNormalize rescales v in place to sum to 1. A zero-sum vector
// falls back to the uniform distribution.
func sumNormalize(v []float64) {
	sum := floats.Sum(v)
	if sum == 0 {
		uniform := 1.0 / float64(len(v))
		for i := range v {
			v[i] = uniform
		}
		return
	}
	floats.Scale(1/sum, v)
}
