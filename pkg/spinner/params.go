// Package spinner implements the edge-balanced k-way partitioning
// algorithm: initialization/rescaling, per-vertex scoring, admission,
// edge reconciliation and convergence detection. The bulk-synchronous
// scheduling that drives these pure functions lives in pkg/actors.
package spinner

import "fmt"

// Params holds every tunable named in the external configuration
// surface. Zero value is not valid; use Defaults() and override.
type Params struct {
	NumberOfPartitions      int     // k
	Repartition             int16   // delta; negative shrinks, positive grows, 0 is steady state
	AdditionalCapacity      float64 // epsilon
	Lambda                  float64
	Alpha                   float64 // LA reward rate
	Beta                    float64 // LA penalty rate
	MaxIterations           int
	ConvergenceThreshold    float64
	WindowSize              int
	EdgeWeight              int8
	ReinforceArgmax         bool // broadcast the argmax score (true) or the LA sample (false)
	EnableConvergenceWindow bool // evaluate the windowed convergence rule instead of always running to MaxIterations
	TraceVertex             int64 // vertex id to emit verbose per-superstep traces for; 0 disables tracing
}

// Defaults returns the option values named in the external interface,
// matching the shipped Java job's DEFAULT_* constants.
func Defaults() Params {
	return Params{
		NumberOfPartitions:      32,
		Repartition:             0,
		AdditionalCapacity:      0.05,
		Lambda:                  1.0,
		Alpha:                   0.98,
		Beta:                    0.02,
		MaxIterations:           290,
		ConvergenceThreshold:    0.001,
		WindowSize:              5,
		EdgeWeight:              1,
		ReinforceArgmax:         true,
		EnableConvergenceWindow: false,
		TraceVertex:             0,
	}
}

// K returns the total number of label slots, k+delta, that every
// per-vertex vector (LA probability, LA signal, score, load, demand)
// is sized to.
func (p Params) K() int {
	return int(p.NumberOfPartitions) + int(p.Repartition)
}

// Validate reports the configuration faults that are fatal before
// superstep 0 even starts: k<=0, windowSize<=0, alpha/beta outside
// [0,1], or a rescale invoked with Repartition==0.
func (p Params) Validate(rescale bool) error {
	if p.NumberOfPartitions <= 0 {
		return fmt.Errorf("%w: numberOfPartitions must be > 0, got %d", ErrConfigFault, p.NumberOfPartitions)
	}
	if p.K() <= 0 {
		return fmt.Errorf("%w: numberOfPartitions+repartition must be > 0, got %d", ErrConfigFault, p.K())
	}
	if p.WindowSize <= 0 {
		return fmt.Errorf("%w: windowSize must be > 0, got %d", ErrConfigFault, p.WindowSize)
	}
	if p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be in [0,1], got %f", ErrConfigFault, p.Alpha)
	}
	if p.Beta < 0 || p.Beta > 1 {
		return fmt.Errorf("%w: beta must be in [0,1], got %f", ErrConfigFault, p.Beta)
	}
	if rescale && p.Repartition == 0 {
		return fmt.Errorf("%w: rescale requested but repartition is 0", ErrConfigFault)
	}
	return nil
}

// TotalCapacity is the per-partition target load: round(directedEdges
// * (1+epsilon) / (k+delta)).
func (p Params) TotalCapacity(directedEdges int64) int64 {
	return roundHalfAwayFromZero(float64(directedEdges) * (1 + p.AdditionalCapacity) / float64(p.K()))
}

func roundHalfAwayFromZero(x float64) int64 {
	if x >= 0 {
		return int64(x + 0.5)
	}
	return int64(x - 0.5)
}
