package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okapi-spinner/spinner/pkg/config"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a cluster node from a YAML config file",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the node's YAML config file")
}

// runServe wires the same coordinator/aggregator/shard actor system as
// "run", but sourced from a cluster config file instead of flags. Only
// the coordinator machine is implemented end to end here: the
// multi-machine transport that would let shard actors live on other
// processes is an external collaborator, described only through the
// actor.Transport/actor.Provider interfaces pkg/cluster implements
// against.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if !cfg.IsCoordinator {
		return fmt.Errorf("this build only runs the coordinator machine of a cluster config; %s is configured as a worker node", cfg.MachineID)
	}

	params := cfg.Algorithm.Params()
	numShards := cfg.Actors.Partitions
	if numShards <= 0 {
		numShards = 1
	}

	return runJob(cfg.Algorithm.EdgesPath, cfg.Algorithm.VertexValuesPath, cfg.Algorithm.OutputPath, cfg.Algorithm.OutputDelimiter, cfg.Algorithm.MigrationLogPath, numShards, params)
}
