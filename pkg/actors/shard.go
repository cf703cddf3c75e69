// Package actors wires the pure algorithm logic in pkg/spinner and
// pkg/la onto the bulk-synchronous actor substrate in pkg/actor: a
// Coordinator sequences supersteps, a population of Shard actors each
// own a disjoint slice of the vertex set, and an Aggregator reduces
// per-shard contributions into the global aggregates.
package actors

import (
	"context"
	"math/rand"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/okapi-spinner/spinner/pkg/actor"
	"github.com/okapi-spinner/spinner/pkg/crdt"
	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/la"
	"github.com/okapi-spinner/spinner/pkg/messages"
	"github.com/okapi-spinner/spinner/pkg/spinner"
)

// ShardActor owns a disjoint slice of the vertex set and runs every
// per-vertex stage against it.
type ShardActor struct {
	*actor.BaseActor

	params     spinner.Params
	graph      *graph.Graph
	aggregator actor.PID

	rngs    map[int64]*rand.Rand
	pending map[int64][]messages.PartitionMessage

	migrations []crdt.MigrationEntry
}

func NewShardActor(pid actor.PID, system *actor.ActorSystem, params spinner.Params, g *graph.Graph, aggregator actor.PID) *ShardActor {
	return &ShardActor{
		BaseActor:  actor.NewBaseActor(pid, system, 4096),
		params:     params,
		graph:      g,
		aggregator: aggregator,
		rngs:       make(map[int64]*rand.Rand),
		pending:    make(map[int64][]messages.PartitionMessage),
	}
}

func (s *ShardActor) Start(ctx context.Context) {
	s.Wg.Add(1)
	go s.run(ctx)
}

func (s *ShardActor) run(ctx context.Context) {
	defer s.Wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.Mailbox.Receive():
			if !ok {
				return
			}
			s.Receive(ctx, msg)
		}
	}
}

func (s *ShardActor) Receive(ctx context.Context, msg actor.Message) {
	switch m := msg.(type) {
	case messages.Deliver:
		s.pending[m.VertexID] = append(s.pending[m.VertexID], m.Payload)
	case messages.StartStage:
		s.runStage(m)
	case messages.Halt:
		log.WithField("shard", s.PID().String()).Info("shard halted")
	}
}

// rngFor returns the per-vertex RNG stream, seeded from the vertex id
// alone so a run is reproducible regardless of which shard hosts the
// vertex or in what order vertices are processed.
func (s *ShardActor) rngFor(id int64) *rand.Rand {
	if r, ok := s.rngs[id]; ok {
		return r
	}
	r := rand.New(rand.NewSource(id))
	s.rngs[id] = r
	return r
}

func (s *ShardActor) sortedVertexIDs() []int64 {
	ids := make([]int64, 0, len(s.graph.Vertices))
	for id := range s.graph.Vertices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *ShardActor) shards() []actor.PID {
	return s.System.GetActors(actor.ShardType)
}

func (s *ShardActor) deliverToNeighbors(id int64, payload messages.PartitionMessage, shards []actor.PID) {
	for _, n := range s.graph.Neighbors[id] {
		to := ownerShard(n.NeighborID, shards)
		_ = s.Send(to, messages.Deliver{VertexID: n.NeighborID, Payload: payload})
	}
}

func (s *ShardActor) runStage(start messages.StartStage) {
	contribution := spinner.NewContribution(start.Snapshot.K)
	shards := s.shards()
	s.migrations = nil

	switch start.Stage {
	case messages.StagePropagate:
		s.runPropagate(shards)
	case messages.StageReconcile:
		s.runReconcile(contribution)
	case messages.StageInitialize:
		s.runInitialize(start, contribution, shards)
	case messages.StageComputeNewPartition:
		s.runComputeNewPartition(start, contribution, shards)
	case messages.StageComputeMigration:
		s.runComputeMigration(start, contribution, shards)
	}

	s.pending = make(map[int64][]messages.PartitionMessage)
	_ = s.Send(s.aggregator, messages.StageComplete{
		Sender:    s.PID(),
		Stage:     start.Stage,
		Superstep: start.Snapshot.Superstep,
		Contribution: messages.Contribution{
			LoadDelta:     contribution.LoadDelta,
			DemandDelta:   contribution.DemandDelta,
			Migrations:    contribution.Migrations,
			LocalEdges:    contribution.LocalEdges,
			CutEdges:      contribution.CutEdges,
			DirectedEdges: contribution.DirectedEdges,
			State:         contribution.State,
		},
		Migrations: s.migrations,
	})
}

func (s *ShardActor) runPropagate(shards []actor.PID) {
	for _, id := range s.sortedVertexIDs() {
		s.deliverToNeighbors(id, messages.NewPartitionMessage(id, -1), shards)
	}
}

func (s *ShardActor) runReconcile(contribution *spinner.Contribution) {
	// A vertex that never appears as an edge source anywhere in the
	// input graph is otherwise never created on the shard that owns
	// it — it is only known here through the propagate-stage messages
	// its neighbors sent it.
	for id := range s.pending {
		s.graph.EnsureVertex(id)
	}

	for _, id := range s.sortedVertexIDs() {
		spinner.Reconcile(s.graph, id, s.pending[id], s.params.EdgeWeight)
	}
	contribution.DirectedEdges = s.graph.CountDirectedEdges()
}

func (s *ShardActor) runInitialize(start messages.StartStage, contribution *spinner.Contribution, shards []actor.PID) {
	priorK := s.params.NumberOfPartitions
	newK := start.Snapshot.K

	for _, id := range s.sortedVertexIDs() {
		v := s.graph.Vertices[id]
		rnd := s.rngFor(id)

		if start.Rescale {
			newCurrent, prob, sig := spinner.Rescale(v.CurrentPartition, priorK, newK, rnd)
			v.CurrentPartition, v.NewPartition = newCurrent, newCurrent
			v.LAProbability, v.LASignal = prob, sig
		} else {
			current, next, prob, sig := spinner.Initialize(id, int64(v.CurrentPartition), newK, rnd)
			v.CurrentPartition, v.NewPartition = current, next
			v.LAProbability, v.LASignal = prob, sig
		}

		contribution.AddLoad(int(v.CurrentPartition), v.NumDirectedEdges)
		s.deliverToNeighbors(id, messages.NewPartitionMessage(id, v.CurrentPartition), shards)

		s.traceVertex(id, "initialize", v)
	}
}

func (s *ShardActor) runComputeNewPartition(start messages.StartStage, contribution *spinner.Contribution, shards []actor.PID) {
	k := start.Snapshot.K
	load := spinner.NewSpeculativeLoad(start.Snapshot.Load)

	for _, id := range s.sortedVertexIDs() {
		v := s.graph.Vertices[id]
		neighbors := s.graph.Neighbors[id]
		inbox := s.pending[id]

		for _, m := range inbox {
			s.graph.NotifyLabel(id, m.SourceID, m.Partition)
		}

		local, cut := spinner.TallyLocality(v.CurrentPartition, neighbors)
		contribution.LocalEdges += local
		contribution.CutEdges += cut

		result := spinner.ScoreCandidates(k, neighbors, load, start.Snapshot.TotalCapacity, s.params.Lambda)

		rnd := s.rngFor(id)
		sampled := la.SelectAction(v.LAProbability, rnd)
		v.NewPartition = int16(sampled)

		broadcastPartition := result.MaxPartition
		if !s.params.ReinforceArgmax {
			broadcastPartition = sampled
		}
		v.LASignal[broadcastPartition] += 1
		s.deliverToNeighbors(id, messages.NewPartitionMessageWithSignal(id, int16(broadcastPartition), 1.0), shards)

		if v.NewPartition != v.CurrentPartition && len(inbox) > 0 {
			contribution.AddDemand(int(v.NewPartition), v.NumDirectedEdges)
			load.Shift(int(v.CurrentPartition), int(v.NewPartition), v.NumDirectedEdges)
		}

		if int(v.CurrentPartition) < len(result.Score) {
			contribution.State += result.Score[v.CurrentPartition]
		}

		s.traceVertex(id, "compute-new-partition", v)
	}
}

func (s *ShardActor) runComputeMigration(start messages.StartStage, contribution *spinner.Contribution, shards []actor.PID) {
	pAdmit := spinner.AdmissionProbability(start.Snapshot.K, start.Snapshot.Load, start.Snapshot.Demand, start.Snapshot.TotalCapacity)

	for _, id := range s.sortedVertexIDs() {
		v := s.graph.Vertices[id]
		inbox := s.pending[id]

		spinner.AbsorbSignals(v, inbox, pAdmit)
		la.UpdateRewardPenalty(v.LAProbability, v.LASignal, start.Snapshot.Superstep, s.params.MaxIterations, s.params.Alpha, s.params.Beta)

		rnd := s.rngFor(id)
		decision := spinner.DecideMigration(v, pAdmit, rnd.Float64())

		if decision.Migrated {
			contribution.AddLoad(int(decision.PreviousPartition), -v.NumDirectedEdges)
			contribution.AddLoad(int(decision.NewPartition), v.NumDirectedEdges)
			contribution.Migrations++
			s.deliverToNeighbors(id, messages.NewPartitionMessage(id, v.CurrentPartition), shards)
		}

		s.migrations = append(s.migrations, crdt.MigrationEntry{
			VertexID:  id,
			Superstep: start.Snapshot.Superstep,
			From:      decision.PreviousPartition,
			To:        decision.NewPartition,
			Migrated:  decision.Migrated,
		})

		s.traceVertex(id, "compute-migration", v)
	}
}

func (s *ShardActor) traceVertex(id int64, stage string, v *graph.VertexState) {
	if s.params.TraceVertex == 0 || id != s.params.TraceVertex {
		return
	}
	log.WithFields(log.Fields{
		"vertex":  id,
		"stage":   stage,
		"current": v.CurrentPartition,
		"new":     v.NewPartition,
		"prob":    v.LAProbability,
	}).Debug("vertex trace")
}
