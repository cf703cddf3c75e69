package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/okapi-spinner/spinner/pkg/actor"
	"github.com/okapi-spinner/spinner/pkg/actors"
	"github.com/okapi-spinner/spinner/pkg/cluster"
	"github.com/okapi-spinner/spinner/pkg/crdt"
	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/graphio"
	"github.com/okapi-spinner/spinner/pkg/spinner"
)

var (
	vertexValuesPath        string
	edgesPath               string
	outputPath              string
	outputDelimiter         string
	migrationLogPath        string
	numShards               int
	numberOfPartitions      int
	repartition             int
	additionalCapacity      float64
	lambda                  float64
	alpha                   float64
	beta                    float64
	maxIterations           int
	convergenceThreshold    float64
	windowSize              int
	edgeWeight              int
	reinforceArgmax         bool
	enableConvergenceWindow bool
	traceVertex             int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Partition a graph on a single machine",
	RunE:  runSingleMachine,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&vertexValuesPath, "vertex-values", "", "path to the vertex-value input file (optional)")
	f.StringVar(&edgesPath, "edges", "", "path to the edge-list input file")
	f.StringVar(&outputPath, "output", "partitions.txt", "path to write the final partition assignments")
	f.StringVar(&outputDelimiter, "output-delimiter", " ", "delimiter between vertex id and partition in the output")
	f.StringVar(&migrationLogPath, "migration-log", "", "path to write the merged migration audit log as JSON (optional)")
	f.IntVar(&numShards, "shards", 4, "number of vertex shards")
	f.IntVar(&numberOfPartitions, "k", 32, "number of partitions")
	f.IntVar(&repartition, "delta", 0, "repartition delta; nonzero triggers a rescale of a prior partitioning")
	f.Float64Var(&additionalCapacity, "epsilon", 0.05, "additional capacity fraction above N/k")
	f.Float64Var(&lambda, "lambda", 1.0, "penalty term weight")
	f.Float64Var(&alpha, "alpha", 0.98, "learning-automaton reward rate")
	f.Float64Var(&beta, "beta", 0.02, "learning-automaton penalty rate")
	f.IntVar(&maxIterations, "max-iterations", 290, "maximum number of supersteps")
	f.Float64Var(&convergenceThreshold, "convergence-threshold", 0.001, "windowed convergence threshold")
	f.IntVar(&windowSize, "window-size", 5, "convergence window size")
	f.IntVar(&edgeWeight, "edge-weight", 1, "default edge weight")
	f.BoolVar(&reinforceArgmax, "reinforce-argmax", true, "broadcast the score argmax rather than the learning-automaton sample")
	f.BoolVar(&enableConvergenceWindow, "enable-convergence-window", false, "halt early via the windowed convergence rule instead of always running to max-iterations")
	f.Int64Var(&traceVertex, "trace-vertex", 0, "emit debug traces for this vertex id (0 disables)")
	_ = runCmd.MarkFlagRequired("edges")
}

func runSingleMachine(cmd *cobra.Command, args []string) error {
	params := spinner.Params{
		NumberOfPartitions:      numberOfPartitions,
		Repartition:             int16(repartition),
		AdditionalCapacity:      additionalCapacity,
		Lambda:                  lambda,
		Alpha:                   alpha,
		Beta:                    beta,
		MaxIterations:           maxIterations,
		ConvergenceThreshold:    convergenceThreshold,
		WindowSize:              windowSize,
		EdgeWeight:              int8(edgeWeight),
		ReinforceArgmax:         reinforceArgmax,
		EnableConvergenceWindow: enableConvergenceWindow,
		TraceVertex:             traceVertex,
	}
	if err := params.Validate(repartition != 0); err != nil {
		return err
	}

	return runJob(edgesPath, vertexValuesPath, outputPath, outputDelimiter, migrationLogPath, numShards, params)
}

// runJob loads the input graph, wires a coordinator/aggregator/shard
// actor system on this machine, blocks until the coordinator reports
// the final Summary, and writes the resulting partition assignments.
func runJob(edgesPath, vertexValuesPath, outputPath, outputDelimiter, migrationLogPath string, numShards int, params spinner.Params) error {
	shardGraphs, err := loadShardGraphs(edgesPath, vertexValuesPath, params, numShards)
	if err != nil {
		return err
	}

	system, provider, coordinator, aggregator, shards, err := wireActorSystem(params, shardGraphs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := system.Start(); err != nil {
		return fmt.Errorf("starting actor system: %w", err)
	}

	coordinator.Start(ctx)
	aggregator.Start(ctx)
	for _, s := range shards {
		s.Start(ctx)
	}

	summary := <-coordinator.Done
	log.WithFields(log.Fields{
		"iterations":      summary.Iterations,
		"migrations":      summary.Migrations,
		"local_edges_pct": summary.LocalEdgesPct,
		"cut_edges":       summary.CutEdges,
		"directed_edges":  summary.DirectedEdges,
	}).Info("partitioning complete")

	if err := writeAssignments(shardGraphs, outputPath, outputDelimiter); err != nil {
		return err
	}

	if migrationLogPath != "" {
		if err := writeMigrationLog(coordinator.MigrationLog(), migrationLogPath); err != nil {
			return err
		}
	}

	system.Shutdown()
	_ = provider
	return nil
}

func writeMigrationLog(migrationLog *crdt.MigrationLog, path string) error {
	data, err := json.MarshalIndent(migrationLog, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling migration log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing migration log: %w", err)
	}
	return nil
}

func loadShardGraphs(edgesPath, vertexValuesPath string, params spinner.Params, numShards int) ([]*graph.Graph, error) {
	edgesFile, err := os.Open(edgesPath)
	if err != nil {
		return nil, fmt.Errorf("opening edges file: %w", err)
	}
	defer edgesFile.Close()

	edgeRecords, err := graphio.ReadEdges(edgesFile, params.EdgeWeight)
	if err != nil {
		return nil, err
	}

	var vertexRecords []graphio.VertexRecord
	if vertexValuesPath != "" {
		vertexFile, err := os.Open(vertexValuesPath)
		if err != nil {
			return nil, fmt.Errorf("opening vertex-values file: %w", err)
		}
		defer vertexFile.Close()

		vertexRecords, err = graphio.ReadVertexValues(vertexFile)
		if err != nil {
			return nil, err
		}
	}

	shardGraphs := make([]*graph.Graph, numShards)
	for i := range shardGraphs {
		shardGraphs[i] = graph.NewGraph()
	}

	for _, e := range edgeRecords {
		idx := actors.ShardIndex(e.Src, numShards)
		shardGraphs[idx].AddInputEdge(e.Src, e.Dst, e.Weight)
	}

	for _, vr := range vertexRecords {
		idx := actors.ShardIndex(vr.ID, numShards)
		v := shardGraphs[idx].EnsureVertex(vr.ID)
		if vr.PriorPartition >= 0 {
			v.CurrentPartition = int16(vr.PriorPartition)
		}
	}

	return shardGraphs, nil
}

func wireActorSystem(params spinner.Params, shardGraphs []*graph.Graph) (*actor.ActorSystem, *cluster.SimpleProvider, *actors.CoordinatorActor, *actors.AggregatorActor, []*actors.ShardActor, error) {
	provider := cluster.NewSimpleProvider("local", false)
	system := actor.NewActorSystem("local", provider, provider)

	coordinatorPID := actor.NewPID("local", "coordinator")
	aggregatorPID := actor.NewPID("local", "aggregator")
	shardPIDs := make([]actor.PID, len(shardGraphs))
	for i := range shardGraphs {
		// Zero-padded so the provider's lexical sort of shard ids keeps
		// index order, which ownerShard relies on to match ShardIndex.
		shardPIDs[i] = actor.NewPID("local", fmt.Sprintf("shard-%06d", i))
	}

	coordinator := actors.NewCoordinatorActor(coordinatorPID, system, params)
	aggregator := actors.NewAggregatorActor(aggregatorPID, system, coordinatorPID, len(shardGraphs))
	shards := make([]*actors.ShardActor, len(shardGraphs))
	for i, g := range shardGraphs {
		shards[i] = actors.NewShardActor(shardPIDs[i], system, params, g, aggregatorPID)
	}

	if err := system.Register(coordinator); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	if err := system.Register(aggregator); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	for _, s := range shards {
		if err := system.Register(s); err != nil {
			return nil, nil, nil, nil, nil, err
		}
	}

	_ = provider.RegisterActor(actor.CoordinatorType, coordinatorPID)
	_ = provider.RegisterActor(actor.AggregatorType, aggregatorPID)
	for _, pid := range shardPIDs {
		_ = provider.RegisterActor(actor.ShardType, pid)
	}
	provider.SetCoordinator(coordinatorPID)

	return system, provider, coordinator, aggregator, shards, nil
}

func writeAssignments(shardGraphs []*graph.Graph, outputPath, outputDelimiter string) error {
	var assignments []graphio.Assignment
	for _, g := range shardGraphs {
		for id, v := range g.Vertices {
			assignments = append(assignments, graphio.Assignment{VertexID: id, Partition: v.CurrentPartition})
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	return graphio.WritePartitions(out, assignments, outputDelimiter)
}
