package spinner

import "math/rand"

// Initialize keeps currentPartitionOverride when it is non-negative
// and otherwise assigns a fresh random partition, resets the proposal to
// match it, and seeds a uniform learning-automaton distribution. rnd
// must be a stream seeded from this vertex's own ID for the run to be
// reproducible regardless of processing order.
func Initialize(id, currentPartitionOverride int64, k int, rnd *rand.Rand) (currentPartition, newPartition int16, laProbability, laSignal []float64) {
	if currentPartitionOverride >= 0 {
		currentPartition = int16(currentPartitionOverride)
	} else {
		currentPartition = int16(rnd.Intn(k))
	}
	newPartition = currentPartition
	laProbability = uniformSimplex(k)
	laSignal = make([]float64, k)
	return
}

func uniformSimplex(k int) []float64 {
	p := make([]float64, k)
	u := 1.0 / float64(k)
	for i := range p {
		p[i] = u
	}
	return p
}

// Rescale adapts a prior partitioning of priorK labels to newK labels.
// Down-scale (newK<priorK) reassigns vertices in a removed partition
// uniformly among survivors; up-scale (newK>priorK) migrates each
// vertex into a new partition with probability (newK-priorK)/newK. The
// learning automaton is always re-seeded uniform over the new width
// rather than carrying forward the narrower prior distribution.
func Rescale(currentPartition int16, priorK, newK int, rnd *rand.Rand) (newCurrentPartition int16, laProbability, laSignal []float64) {
	newCurrentPartition = currentPartition

	switch {
	case newK < priorK:
		if int(currentPartition) >= newK {
			newCurrentPartition = int16(rnd.Intn(newK))
		}
	case newK > priorK:
		grow := newK - priorK
		p := float64(grow) / float64(newK)
		if rnd.Float64() < p {
			newCurrentPartition = int16(priorK + rnd.Intn(grow))
		}
	}

	laProbability = uniformSimplex(newK)
	laSignal = make([]float64, newK)
	return
}
