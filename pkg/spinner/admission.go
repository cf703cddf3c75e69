package spinner

import (
	"math"

	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/messages"
)

// AdmissionProbability computes, per destination partition, the
// capacity-proportional admission probability: remaining capacity
// divided by demand, capped at 1.
func AdmissionProbability(k int, load, demand []int64, totalCapacity int64) []float64 {
	p := make([]float64, k)
	for i := 0; i < k; i++ {
		remain := totalCapacity - load[i]
		if demand[i] == 0 || remain <= 0 {
			p[i] = 0
			continue
		}
		p[i] = math.Min(1, float64(remain)/float64(demand[i]))
	}
	return p
}

// AbsorbSignals folds propose-stage broadcasts into the vertex's
// signal accumulator: a signal counts if its partition is this
// vertex's own proposal, or the destination still has positive
// admission probability.
func AbsorbSignals(v *graph.VertexState, inbox []messages.PartitionMessage, pAdmit []float64) {
	for _, m := range inbox {
		i := int(m.Partition)
		if i < 0 || i >= len(v.LASignal) {
			continue
		}
		if i == int(v.NewPartition) || pAdmit[i] > 0 {
			v.LASignal[i] += m.Signal
		}
	}
}

// MigrationDecision is the admit-or-revert outcome for one vertex.
type MigrationDecision struct {
	Migrated         bool
	PreviousPartition int16
	NewPartition     int16
}

// DecideMigration draws u and either commits the vertex's proposed
// move or reverts newPartition back to currentPartition. u is passed
// in rather than drawn here so callers can source it from the
// vertex's own seeded RNG stream.
func DecideMigration(v *graph.VertexState, pAdmit []float64, u float64) MigrationDecision {
	if v.NewPartition == v.CurrentPartition {
		return MigrationDecision{Migrated: false, PreviousPartition: v.CurrentPartition, NewPartition: v.CurrentPartition}
	}

	dest := int(v.NewPartition)
	admit := 0.0
	if dest >= 0 && dest < len(pAdmit) {
		admit = pAdmit[dest]
	}

	if u < admit {
		prev := v.CurrentPartition
		v.CurrentPartition = v.NewPartition
		return MigrationDecision{Migrated: true, PreviousPartition: prev, NewPartition: v.CurrentPartition}
	}

	v.NewPartition = v.CurrentPartition
	return MigrationDecision{Migrated: false, PreviousPartition: v.CurrentPartition, NewPartition: v.CurrentPartition}
}
