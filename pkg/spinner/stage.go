package spinner

import "github.com/okapi-spinner/spinner/pkg/messages"

// StageForSuperstep is the coordinator's static dispatch table, keyed
// by superstep parity rather than a runtime type-switch.
func StageForSuperstep(superstep int) messages.Stage {
	switch {
	case superstep == 0:
		return messages.StagePropagate
	case superstep == 1:
		return messages.StageReconcile
	case superstep == 2:
		return messages.StageInitialize
	case superstep%2 == 1:
		return messages.StageComputeNewPartition
	default:
		return messages.StageComputeMigration
	}
}

// Summary is the machine-readable form of the halt counters returned
// by the coordinator when the job stops.
type Summary struct {
	Migrations             int64
	Iterations             int
	LocalEdgesPct          float64
	MaxMinImbalanceX1000   int64
	MaxNormalizedLoadX1000 int64
	ScoreX1000             int64
	CutEdges               int64
	DirectedEdges          int64
}

// BuildSummary computes the halt counters from the final aggregates.
// A zero minLoad reports imbalance as an effectively-infinite ratio
// rather than dividing by zero.
func BuildSummary(iterations int, migrations int64, load []int64, totalCapacity int64, localEdges, cutEdges, directedEdges int64, state float64) Summary {
	s := Summary{
		Migrations:    migrations,
		Iterations:    iterations,
		CutEdges:      cutEdges,
		DirectedEdges: directedEdges,
	}

	if directedEdges > 0 {
		s.LocalEdgesPct = float64(localEdges) / float64(directedEdges)
	}

	var maxLoad, minLoad int64 = 0, -1
	for _, l := range load {
		if l > maxLoad {
			maxLoad = l
		}
		if minLoad == -1 || l < minLoad {
			minLoad = l
		}
	}
	if minLoad <= 0 {
		s.MaxMinImbalanceX1000 = int64(1) << 62 // stand-in for +Inf, see doc comment above
	} else {
		s.MaxMinImbalanceX1000 = int64(1000 * float64(maxLoad) / float64(minLoad))
	}

	if totalCapacity > 0 {
		s.MaxNormalizedLoadX1000 = int64(1000 * float64(maxLoad) / float64(totalCapacity))
	}

	s.ScoreX1000 = int64(1000 * state)
	return s
}
