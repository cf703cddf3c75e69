package messages

import (
	"github.com/okapi-spinner/spinner/pkg/actor"
	"github.com/okapi-spinner/spinner/pkg/crdt"
)

// Stage tags one superstep's computation class. The coordinator picks
// a stage from the superstep's parity alone; see pkg/spinner/stage.go
// for the dispatch table this tags into.
type Stage int

const (
	// StagePropagate is superstep 0: every vertex sends its own id to
	// every neighbor it knows about from the raw input.
	StagePropagate Stage = iota
	// StageReconcile is superstep 1: add reverse edges for any
	// neighbor the vertex did not already know about, marking which
	// edges were directed-present in the raw input.
	StageReconcile
	// StageInitialize is superstep 2: assign initial partitions (or
	// rescale a prior partitioning) and seed the learning automaton.
	StageInitialize
	// StageComputeNewPartition is any odd superstep s>=3: score every
	// candidate partition and select a proposal.
	StageComputeNewPartition
	// StageComputeMigration is any even superstep s>=3: absorb
	// signals, update the automaton, and admit or revert the proposed
	// migration.
	StageComputeMigration
)

func (s Stage) String() string {
	switch s {
	case StagePropagate:
		return "propagate"
	case StageReconcile:
		return "reconcile"
	case StageInitialize:
		return "initialize"
	case StageComputeNewPartition:
		return "compute-new-partition"
	case StageComputeMigration:
		return "compute-migration"
	default:
		return "unknown"
	}
}

// AggregateSnapshot is the read-only view of global aggregates a shard
// sees at the start of a stage: the state reduced at the end of the
// previous superstep. Shards only ever read this snapshot; they never
// mutate the coordinator's copy directly, only propose deltas back via
// Contribution.
type AggregateSnapshot struct {
	Superstep     int
	K             int
	DirectedEdges int64
	TotalCapacity int64
	Load          []int64
	Demand        []int64
}

// StartStage is sent by the coordinator to every shard to begin a
// superstep. Rescale carries the rescale flag for StageInitialize; it
// is ignored by every other stage.
type StartStage struct {
	Stage    Stage
	Snapshot AggregateSnapshot
	Rescale  bool
}

func (m StartStage) Type() string { return "StartStage" }

// Contribution is a shard's local delta to the global aggregates after
// finishing one stage. The coordinator sums these commutative,
// associative deltas from every shard before broadcasting the next
// stage's AggregateSnapshot.
type Contribution struct {
	LoadDelta     []int64
	DemandDelta   []int64
	Migrations    int64
	LocalEdges    int64
	CutEdges      int64
	DirectedEdges int64
	State         float64
}

// StageComplete reports one shard's contribution for the stage named
// by Stage/Superstep, and is idle (no further mail expected) until the
// coordinator issues the next StartStage. Migrations is only populated
// for StageComputeMigration; every committed decision needs
// last-writer-wins conflict resolution rather than the elementwise sum
// Contribution's fields get, so it travels separately.
type StageComplete struct {
	Sender       actor.PID
	Stage        Stage
	Superstep    int
	Contribution Contribution
	Migrations   []crdt.MigrationEntry
}

func (m StageComplete) Type() string { return "StageComplete" }

// Deliver addresses a PartitionMessage to a specific recipient vertex.
// The wire PartitionMessage itself only names its sender; routing to
// the vertex it is meant for is a mailbox-layer concern, kept out of
// the wire format itself.
type Deliver struct {
	VertexID int64
	Payload  PartitionMessage
}

func (m Deliver) Type() string { return "Deliver" }

// AggregateReduced is the aggregator's output: the commutative,
// associative sum of every shard's Contribution for one stage, sent
// once every registered shard has reported in. Migrations is the
// aggregator's merged migration log snapshot as of this stage.
type AggregateReduced struct {
	Stage        Stage
	Superstep    int
	Contribution Contribution
	Migrations   []crdt.MigrationEntry
}

func (m AggregateReduced) Type() string { return "AggregateReduced" }

// Halt is broadcast by the coordinator once the job terminates; a
// shard receiving it only logs that it halted. The final partition
// assignments are written by the job driver, not by the shard.
type Halt struct {
	Superstep int
}

func (m Halt) Type() string { return "Halt" }
