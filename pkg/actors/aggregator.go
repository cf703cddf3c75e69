package actors

import (
	"context"

	"github.com/okapi-spinner/spinner/pkg/actor"
	"github.com/okapi-spinner/spinner/pkg/crdt"
	"github.com/okapi-spinner/spinner/pkg/messages"
)

// AggregatorActor is the typed reducer handle from the design notes:
// it sums every shard's Contribution for one (stage, superstep) and
// forwards the combined total to the coordinator once every shard
// registered at construction time has reported in.
type AggregatorActor struct {
	*actor.BaseActor

	coordinator actor.PID
	numShards   int

	stage     messages.Stage
	superstep int
	received  int
	combined  messages.Contribution
	started   bool

	// migrations accumulates across the whole job, unlike the
	// per-stage fields above which reset every (stage, superstep).
	migrations *crdt.MigrationLog
}

func NewAggregatorActor(pid actor.PID, system *actor.ActorSystem, coordinator actor.PID, numShards int) *AggregatorActor {
	return &AggregatorActor{
		BaseActor:   actor.NewBaseActor(pid, system, 4096),
		coordinator: coordinator,
		numShards:   numShards,
		migrations:  crdt.NewMigrationLog(),
	}
}

func (a *AggregatorActor) Start(ctx context.Context) {
	a.Wg.Add(1)
	go a.run(ctx)
}

func (a *AggregatorActor) run(ctx context.Context) {
	defer a.Wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-a.Mailbox.Receive():
			if !ok {
				return
			}
			a.Receive(ctx, msg)
		}
	}
}

func (a *AggregatorActor) Receive(ctx context.Context, msg actor.Message) {
	sc, ok := msg.(messages.StageComplete)
	if !ok {
		return
	}

	if !a.started || sc.Stage != a.stage || sc.Superstep != a.superstep {
		a.stage = sc.Stage
		a.superstep = sc.Superstep
		a.received = 0
		a.combined = messages.Contribution{
			LoadDelta:   make([]int64, len(sc.Contribution.LoadDelta)),
			DemandDelta: make([]int64, len(sc.Contribution.DemandDelta)),
		}
		a.started = true
	}

	reduceInto(&a.combined, sc.Contribution)
	for _, e := range sc.Migrations {
		a.migrations.Record(e)
	}
	a.received++

	if a.received >= a.numShards {
		_ = a.Send(a.coordinator, messages.AggregateReduced{
			Stage:        a.stage,
			Superstep:    a.superstep,
			Contribution: a.combined,
			Migrations:   a.migrations.Snapshot(),
		})
	}
}

func reduceInto(base *messages.Contribution, c messages.Contribution) {
	for i, v := range c.LoadDelta {
		if i < len(base.LoadDelta) {
			base.LoadDelta[i] += v
		}
	}
	for i, v := range c.DemandDelta {
		if i < len(base.DemandDelta) {
			base.DemandDelta[i] += v
		}
	}
	base.Migrations += c.Migrations
	base.LocalEdges += c.LocalEdges
	base.CutEdges += c.CutEdges
	base.DirectedEdges += c.DirectedEdges
	base.State += c.State
}
