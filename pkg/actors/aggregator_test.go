package actors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/actor"
	"github.com/okapi-spinner/spinner/pkg/crdt"
	"github.com/okapi-spinner/spinner/pkg/messages"
)

// captureActor is a minimal actor.Actor with a real mailbox, standing
// in for the coordinator in tests that only care about what the
// aggregator sends it. Messages land in the mailbox synchronously with
// the aggregator's Send call, so the test can read them back without
// needing to run the actor's own receive loop.
type captureActor struct {
	pid     actor.PID
	mailbox *actor.Mailbox
}

func newCaptureActor(pid actor.PID) *captureActor {
	return &captureActor{pid: pid, mailbox: actor.NewMailbox(8)}
}

func (c *captureActor) PID() actor.PID                             { return c.pid }
func (c *captureActor) Receive(_ context.Context, _ actor.Message) {}
func (c *captureActor) Start(_ context.Context)                    {}
func (c *captureActor) Stop()                                      {}
func (c *captureActor) GetMailbox() *actor.Mailbox                 { return c.mailbox }

func TestReduceIntoSumsElementwise(t *testing.T) {
	base := messages.Contribution{
		LoadDelta:   []int64{1, 2, 3},
		DemandDelta: []int64{0, 0, 0},
		Migrations:  1,
		LocalEdges:  10,
		CutEdges:    2,
		State:       0.5,
	}

	reduceInto(&base, messages.Contribution{
		LoadDelta:   []int64{1, 1, 1},
		DemandDelta: []int64{5, 5, 5},
		Migrations:  2,
		LocalEdges:  4,
		CutEdges:    1,
		State:       0.25,
	})

	assert.Equal(t, []int64{2, 3, 4}, base.LoadDelta)
	assert.Equal(t, []int64{5, 5, 5}, base.DemandDelta)
	assert.EqualValues(t, 3, base.Migrations)
	assert.EqualValues(t, 14, base.LocalEdges)
	assert.EqualValues(t, 3, base.CutEdges)
	assert.InDelta(t, 0.75, base.State, 1e-9)
}

func TestReduceIntoIgnoresOutOfRangeIndices(t *testing.T) {
	base := messages.Contribution{LoadDelta: []int64{0, 0}}
	reduceInto(&base, messages.Contribution{LoadDelta: []int64{1, 1, 1}})
	assert.Equal(t, []int64{1, 1}, base.LoadDelta)
}

func TestAggregatorMergesMigrationsAcrossShardsAndSupersteps(t *testing.T) {
	system := actor.NewActorSystem("test", nil, nil)
	coordinatorPID := actor.NewPID("test", "coordinator")
	coordinator := newCaptureActor(coordinatorPID)
	require.NoError(t, system.Register(coordinator))

	aggregatorPID := actor.NewPID("test", "aggregator")
	agg := NewAggregatorActor(aggregatorPID, system, coordinatorPID, 2)
	require.NoError(t, system.Register(agg))

	shardA := actor.NewPID("test", "shard-0")
	shardB := actor.NewPID("test", "shard-1")

	agg.Receive(context.Background(), messages.StageComplete{
		Sender: shardA, Stage: messages.StageComputeMigration, Superstep: 4,
		Contribution: messages.Contribution{},
		Migrations:   []crdt.MigrationEntry{{VertexID: 1, Superstep: 4, To: 2, Migrated: true}},
	})
	agg.Receive(context.Background(), messages.StageComplete{
		Sender: shardB, Stage: messages.StageComputeMigration, Superstep: 4,
		Contribution: messages.Contribution{},
		Migrations:   []crdt.MigrationEntry{{VertexID: 2, Superstep: 4, To: 3, Migrated: true}},
	})

	select {
	case msg := <-coordinator.mailbox.Receive():
		reduced, ok := msg.(messages.AggregateReduced)
		require.True(t, ok)
		require.Len(t, reduced.Migrations, 2)
		assert.Equal(t, int64(1), reduced.Migrations[0].VertexID)
		assert.Equal(t, int64(2), reduced.Migrations[1].VertexID)
	default:
		t.Fatal("expected an AggregateReduced message once both shards reported in")
	}

	// A later superstep's migrations merge into the same persistent
	// log rather than replacing it.
	agg.Receive(context.Background(), messages.StageComplete{
		Sender: shardA, Stage: messages.StageComputeMigration, Superstep: 6,
		Contribution: messages.Contribution{},
		Migrations:   []crdt.MigrationEntry{{VertexID: 1, Superstep: 6, To: 5, Migrated: true}},
	})
	agg.Receive(context.Background(), messages.StageComplete{
		Sender: shardB, Stage: messages.StageComputeMigration, Superstep: 6,
		Contribution: messages.Contribution{},
	})

	select {
	case msg := <-coordinator.mailbox.Receive():
		reduced := msg.(messages.AggregateReduced)
		require.Len(t, reduced.Migrations, 2)
		var vertex1 crdt.MigrationEntry
		for _, e := range reduced.Migrations {
			if e.VertexID == 1 {
				vertex1 = e
			}
		}
		assert.Equal(t, int16(5), vertex1.To, "vertex 1's entry should have been overwritten by the later superstep")
	default:
		t.Fatal("expected a second AggregateReduced message")
	}
}
