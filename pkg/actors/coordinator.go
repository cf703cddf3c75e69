package actors

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/okapi-spinner/spinner/pkg/actor"
	"github.com/okapi-spinner/spinner/pkg/crdt"
	"github.com/okapi-spinner/spinner/pkg/messages"
	"github.com/okapi-spinner/spinner/pkg/spinner"
)

// CoordinatorActor drives the superstep state machine: it broadcasts
// one StartStage per superstep, waits for the aggregator's single
// AggregateReduced reply, updates the persistent aggregates, and
// decides whether to halt.
type CoordinatorActor struct {
	*actor.BaseActor

	params  spinner.Params
	k       int
	rescale bool

	superstep     int
	load          []int64
	demand        []int64
	directedEdges int64
	totalCapacity int64
	migrations    int64
	localEdges    int64
	cutEdges      int64
	state         float64

	convergence  *spinner.ConvergenceDetector
	migrationLog *crdt.MigrationLog

	// Done receives the final Summary exactly once, when the job halts.
	Done chan spinner.Summary
}

func NewCoordinatorActor(pid actor.PID, system *actor.ActorSystem, params spinner.Params) *CoordinatorActor {
	k := params.K()
	return &CoordinatorActor{
		BaseActor:    actor.NewBaseActor(pid, system, 64),
		params:       params,
		k:            k,
		rescale:      params.Repartition != 0,
		load:         make([]int64, k),
		demand:       make([]int64, k),
		convergence:  spinner.NewConvergenceDetector(params.WindowSize, params.ConvergenceThreshold, params.EnableConvergenceWindow),
		migrationLog: crdt.NewMigrationLog(),
		Done:         make(chan spinner.Summary, 1),
	}
}

// MigrationLog returns the coordinator's merged view of the latest
// migration decision (moved or not) reported for each vertex, keyed by
// vertex id.
func (c *CoordinatorActor) MigrationLog() *crdt.MigrationLog {
	return c.migrationLog
}

func (c *CoordinatorActor) Start(ctx context.Context) {
	c.Wg.Add(1)
	go c.run(ctx)
	c.broadcastStage(spinner.StageForSuperstep(0), 0)
}

func (c *CoordinatorActor) run(ctx context.Context) {
	defer c.Wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Mailbox.Receive():
			if !ok {
				return
			}
			c.Receive(ctx, msg)
		}
	}
}

func (c *CoordinatorActor) Receive(ctx context.Context, msg actor.Message) {
	reduced, ok := msg.(messages.AggregateReduced)
	if !ok {
		return
	}
	c.handleReduced(reduced)
}

func (c *CoordinatorActor) handleReduced(m messages.AggregateReduced) {
	contribution := m.Contribution

	switch m.Stage {
	case messages.StageReconcile:
		c.directedEdges = contribution.DirectedEdges
		c.totalCapacity = c.params.TotalCapacity(c.directedEdges)
		c.load = make([]int64, c.k)
	case messages.StageInitialize:
		spinner.Reduce(c.load, contribution.LoadDelta)
	case messages.StageComputeNewPartition:
		c.demand = contribution.DemandDelta
		c.localEdges = contribution.LocalEdges
		c.cutEdges = contribution.CutEdges
		c.state = contribution.State
		log.WithFields(log.Fields{
			"superstep":   m.Superstep,
			"state":       c.state,
			"localEdges":  c.localEdges,
			"cutEdges":    c.cutEdges,
		}).Info("compute-new-partition complete")

		if c.convergence.Check(m.Superstep, c.state) {
			c.halt(m.Superstep)
			return
		}
	case messages.StageComputeMigration:
		spinner.Reduce(c.load, contribution.LoadDelta)
		c.migrations += contribution.Migrations
		for _, e := range m.Migrations {
			c.migrationLog.Record(e)
		}
		log.WithFields(log.Fields{
			"superstep":  m.Superstep,
			"migrations": contribution.Migrations,
			"total":      c.migrations,
		}).Info("compute-migration complete")
	}

	next := m.Superstep + 1
	if next >= c.params.MaxIterations {
		c.halt(next)
		return
	}

	c.superstep = next
	c.broadcastStage(spinner.StageForSuperstep(next), next)
}

func (c *CoordinatorActor) broadcastStage(stage messages.Stage, superstep int) {
	snapshot := messages.AggregateSnapshot{
		Superstep:     superstep,
		K:             c.k,
		DirectedEdges: c.directedEdges,
		TotalCapacity: c.totalCapacity,
		Load:          c.load,
		Demand:        c.demand,
	}
	c.System.Broadcast(actor.ShardType, messages.StartStage{Stage: stage, Snapshot: snapshot, Rescale: c.rescale})
}

func (c *CoordinatorActor) halt(superstep int) {
	summary := spinner.BuildSummary(superstep, c.migrations, c.load, c.totalCapacity, c.localEdges, c.cutEdges, c.directedEdges, c.state)
	log.WithFields(log.Fields{
		"iterations":    summary.Iterations,
		"migrations":    summary.Migrations,
		"localEdgesPct": summary.LocalEdgesPct,
		"cutEdges":      summary.CutEdges,
	}).Info("job halted")

	c.System.Broadcast(actor.ShardType, messages.Halt{Superstep: superstep})
	c.Done <- summary
	close(c.Done)
}
