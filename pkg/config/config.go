package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okapi-spinner/spinner/pkg/spinner"
)

type Config struct {
	MachineID     string    `yaml:"machine_id"`
	Port          int       `yaml:"port"`
	IsCoordinator bool      `yaml:"is_coordinator"`
	Coordinator   string    `yaml:"coordinator,omitempty"`
	Algorithm     Algorithm `yaml:"algorithm"`
	Actors        Actors    `yaml:"actors"`
	Network       Network   `yaml:"network"`
}

// Algorithm is the on-disk form of spinner.Params, plus the job-driver
// fields (timeouts, input/output paths) the algorithm itself doesn't
// know about.
type Algorithm struct {
	NumberOfPartitions      int           `yaml:"number_of_partitions"`
	Repartition             int16         `yaml:"repartition"`
	AdditionalCapacity      float64       `yaml:"additional_capacity"`
	Lambda                  float64       `yaml:"lambda"`
	Alpha                   float64       `yaml:"alpha"`
	Beta                    float64       `yaml:"beta"`
	MaxIterations           int           `yaml:"max_iterations"`
	ConvergenceThreshold    float64       `yaml:"convergence_threshold"`
	WindowSize              int           `yaml:"window_size"`
	EdgeWeight              int8          `yaml:"edge_weight"`
	ReinforceArgmax         bool          `yaml:"reinforce_argmax"`
	EnableConvergenceWindow bool          `yaml:"enable_convergence_window"`
	TraceVertex             int64         `yaml:"trace_vertex"`
	Timeout                 time.Duration `yaml:"timeout"`
	GracePeriod             time.Duration `yaml:"grace_period"`
	VertexValuesPath        string        `yaml:"vertex_values_path"`
	EdgesPath               string        `yaml:"edges_path"`
	OutputPath              string        `yaml:"output_path"`
	OutputDelimiter         string        `yaml:"output_delimiter"`
	MigrationLogPath        string        `yaml:"migration_log_path"`
}

// Params converts the on-disk fields into the algorithm's own
// parameter type.
func (a Algorithm) Params() spinner.Params {
	return spinner.Params{
		NumberOfPartitions:      a.NumberOfPartitions,
		Repartition:             a.Repartition,
		AdditionalCapacity:      a.AdditionalCapacity,
		Lambda:                  a.Lambda,
		Alpha:                   a.Alpha,
		Beta:                    a.Beta,
		MaxIterations:           a.MaxIterations,
		ConvergenceThreshold:    a.ConvergenceThreshold,
		WindowSize:              a.WindowSize,
		EdgeWeight:              a.EdgeWeight,
		ReinforceArgmax:         a.ReinforceArgmax,
		EnableConvergenceWindow: a.EnableConvergenceWindow,
		TraceVertex:             a.TraceVertex,
	}
}

// AlgorithmFromDefaults returns the on-disk Algorithm form of
// spinner.Defaults(), for constructing a config that validates
// out of the box.
func AlgorithmFromDefaults() Algorithm {
	d := spinner.Defaults()
	return Algorithm{
		NumberOfPartitions:      d.NumberOfPartitions,
		Repartition:             d.Repartition,
		AdditionalCapacity:      d.AdditionalCapacity,
		Lambda:                  d.Lambda,
		Alpha:                   d.Alpha,
		Beta:                    d.Beta,
		MaxIterations:           d.MaxIterations,
		ConvergenceThreshold:    d.ConvergenceThreshold,
		WindowSize:              d.WindowSize,
		EdgeWeight:              d.EdgeWeight,
		ReinforceArgmax:         d.ReinforceArgmax,
		EnableConvergenceWindow: d.EnableConvergenceWindow,
		OutputDelimiter:         " ",
	}
}

type Actors struct {
	Partitions  int `yaml:"partitions"`
	Aggregators int `yaml:"aggregators"`
}

type Network struct {
	Peers []Peer `yaml:"peers"`
}

type Peer struct {
	ID      string `yaml:"id"`
	Address string `yaml:"address"`
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := Config{Algorithm: AlgorithmFromDefaults()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if config.MachineID == "" {
		return nil, fmt.Errorf("machine_id is required")
	}

	if !config.IsCoordinator && config.Coordinator == "" {
		return nil, fmt.Errorf("coordinator address is required when not running as coordinator")
	}

	if config.IsCoordinator && config.Coordinator != "" {
		return nil, fmt.Errorf("cannot specify coordinator address when running as coordinator")
	}

	if err := config.Algorithm.Params().Validate(config.Algorithm.Repartition != 0); err != nil {
		return nil, fmt.Errorf("invalid algorithm configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

func LoadConfigFromEnv() *Config {
	algorithm := AlgorithmFromDefaults()
	algorithm.NumberOfPartitions = getEnvInt("NUMBER_OF_PARTITIONS", algorithm.NumberOfPartitions)
	algorithm.MaxIterations = getEnvInt("MAX_ITERATIONS", algorithm.MaxIterations)
	algorithm.Timeout = getEnvDuration("TIMEOUT", 60*time.Second)
	algorithm.GracePeriod = getEnvDuration("GRACE_PERIOD", 2*time.Second)
	algorithm.VertexValuesPath = getEnv("VERTEX_VALUES_PATH", "")
	algorithm.EdgesPath = getEnv("EDGES_PATH", "data/karate_club.csv")
	algorithm.OutputPath = getEnv("OUTPUT_PATH", "")

	return &Config{
		MachineID:     getEnv("MACHINE_ID", ""),
		Port:          getEnvInt("PORT", 8080),
		IsCoordinator: getEnvBool("IS_COORDINATOR", false),
		Coordinator:   getEnv("COORDINATOR", ""),
		Algorithm:     algorithm,
		Actors: Actors{
			Partitions:  getEnvInt("PARTITIONS", 4),
			Aggregators: getEnvInt("AGGREGATORS", 2),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
