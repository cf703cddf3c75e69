package spinner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okapi-spinner/spinner/pkg/spinner"
)

func TestConvergenceDetectorDisabledNeverFires(t *testing.T) {
	d := spinner.NewConvergenceDetector(2, 0.001, false)
	for s := 0; s < 20; s++ {
		assert.False(t, d.Check(s, 100.0))
	}
	assert.Len(t, d.History, 20)
}

func TestConvergenceDetectorWindowedRuleFiresOnPlateau(t *testing.T) {
	d := spinner.NewConvergenceDetector(2, 0.001, true)
	for s := 3; s < 3+2; s++ {
		assert.False(t, d.Check(s, 100.0))
	}
	assert.True(t, d.Check(3+2, 100.0))
}

func TestConvergenceDetectorWindowedRuleWaitsForWindow(t *testing.T) {
	d := spinner.NewConvergenceDetector(5, 0.001, true)
	assert.False(t, d.Check(3, 100.0))
}
