package spinner

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ConvergenceDetector tracks the state history produced by
// score-and-propose stages. Check always appends to the history;
// whether it ever reports convergence is gated by EnableWindow, so a
// caller can choose between always running to the iteration cap and
// halting early once the windowed-max-ratio rule stabilizes.
type ConvergenceDetector struct {
	History      []float64
	WindowSize   int
	Threshold    float64
	EnableWindow bool
}

func NewConvergenceDetector(windowSize int, threshold float64, enableWindow bool) *ConvergenceDetector {
	return &ConvergenceDetector{WindowSize: windowSize, Threshold: threshold, EnableWindow: enableWindow}
}

// Check appends state to the history and, if EnableWindow is set and
// enough history has accumulated (superstep >= 3+WindowSize), reports
// whether the windowed-max-ratio rule fires.
func (c *ConvergenceDetector) Check(superstep int, state float64) bool {
	prior := c.History
	c.History = append(c.History, state)

	if !c.EnableWindow {
		return false
	}
	if superstep < 3+c.WindowSize {
		return false
	}

	// best is the running max over history strictly before this state,
	// so a state that only just became the new max still has to prove
	// itself against what came before rather than trivially matching
	// itself.
	if len(prior) == 0 {
		return state == 0
	}
	best := floats.Max(prior)
	if best == 0 {
		return state == 0
	}
	step := math.Abs(1 - state/best)
	return step < c.Threshold
}
