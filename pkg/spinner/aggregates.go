package spinner

// SpeculativeLoad is the "speculative local load object" the design
// notes call for: during a single score-and-propose stage, a shard
// mutates its own copy of load[] so later vertices in the same batch
// see earlier ones' tentative demand, without that mutation ever
// reaching the coordinator's real load[] before the next barrier.
type SpeculativeLoad struct {
	base  []int64
	delta []int64
}

// NewSpeculativeLoad copies base so the caller's slice is never
// aliased by the speculative mutations below.
func NewSpeculativeLoad(base []int64) *SpeculativeLoad {
	local := make([]int64, len(base))
	copy(local, base)
	return &SpeculativeLoad{base: local, delta: make([]int64, len(base))}
}

func (s *SpeculativeLoad) At(i int) int64 { return s.base[i] }

// Shift moves n units of load from "from" to "to" in the local copy
// only; From and to may be equal (no-op) or -1 (skip, used before a
// vertex has any current partition).
func (s *SpeculativeLoad) Shift(from, to int, n int64) {
	if from == to {
		return
	}
	if from >= 0 {
		s.base[from] -= n
		s.delta[from] -= n
	}
	if to >= 0 {
		s.base[to] += n
		s.delta[to] += n
	}
}

// Delta returns the net load change of every Shift made on this
// object so far. It has no knowledge of admission: a speculative
// shift whose proposal is later reverted is still counted.
func (s *SpeculativeLoad) Delta() []int64 {
	out := make([]int64, len(s.delta))
	copy(out, s.delta)
	return out
}

// Contribution accumulates one shard's local effect on the global
// aggregates over the course of a stage; the coordinator/aggregator
// sums these commutative-associative deltas from every shard before
// broadcasting the next AggregateSnapshot.
type Contribution struct {
	K             int
	LoadDelta     []int64
	DemandDelta   []int64
	Migrations    int64
	LocalEdges    int64
	CutEdges      int64
	DirectedEdges int64
	State         float64
}

func NewContribution(k int) *Contribution {
	return &Contribution{
		K:           k,
		LoadDelta:   make([]int64, k),
		DemandDelta: make([]int64, k),
	}
}

func (c *Contribution) AddLoad(partition int, n int64) {
	if partition >= 0 && partition < c.K {
		c.LoadDelta[partition] += n
	}
}

func (c *Contribution) AddDemand(partition int, n int64) {
	if partition >= 0 && partition < c.K {
		c.DemandDelta[partition] += n
	}
}

// Reduce sums a slice of per-partition deltas into base in place,
// mirroring the aggregator's commutative-associative sum reduction.
func Reduce(base []int64, contributions ...[]int64) []int64 {
	for _, c := range contributions {
		for i, v := range c {
			if i < len(base) {
				base[i] += v
			}
		}
	}
	return base
}
