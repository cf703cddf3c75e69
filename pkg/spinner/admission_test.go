package spinner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/messages"
	"github.com/okapi-spinner/spinner/pkg/spinner"
)

func TestAdmissionProbabilityZeroDemandOrFullCapacity(t *testing.T) {
	load := []int64{100, 50}
	demand := []int64{0, 10}
	p := spinner.AdmissionProbability(2, load, demand, 100)

	assert.Zero(t, p[0], "zero demand admits nothing")
	assert.Greater(t, p[1], 0.0)
}

func TestAdmissionProbabilityCapsAtOne(t *testing.T) {
	load := []int64{0}
	demand := []int64{1}
	p := spinner.AdmissionProbability(1, load, demand, 100)
	assert.Equal(t, 1.0, p[0])
}

func TestDecideMigrationNoOpWhenProposalMatchesCurrent(t *testing.T) {
	v := graph.NewVertexState(1)
	v.CurrentPartition, v.NewPartition = 3, 3

	d := spinner.DecideMigration(v, []float64{1, 1, 1, 1}, 0.999)

	assert.False(t, d.Migrated)
	assert.EqualValues(t, 3, v.CurrentPartition)
}

func TestDecideMigrationCommitsBelowAdmissionThreshold(t *testing.T) {
	v := graph.NewVertexState(1)
	v.CurrentPartition, v.NewPartition = 0, 1

	d := spinner.DecideMigration(v, []float64{0, 0.5}, 0.1)

	assert.True(t, d.Migrated)
	assert.EqualValues(t, 1, v.CurrentPartition)
}

func TestDecideMigrationRevertsAboveAdmissionThreshold(t *testing.T) {
	v := graph.NewVertexState(1)
	v.CurrentPartition, v.NewPartition = 0, 1

	d := spinner.DecideMigration(v, []float64{0, 0.5}, 0.9)

	assert.False(t, d.Migrated)
	assert.EqualValues(t, 0, v.CurrentPartition)
	assert.EqualValues(t, 0, v.NewPartition, "a reverted proposal is reset back to currentPartition")
}

func TestAbsorbSignalsOnlyKeepsOwnProposalOrPositiveAdmission(t *testing.T) {
	v := graph.NewVertexState(1)
	v.NewPartition = 0
	v.LASignal = make([]float64, 3)

	inbox := []messages.PartitionMessage{
		messages.NewPartitionMessageWithSignal(10, 0, 1.0), // own proposal
		messages.NewPartitionMessageWithSignal(11, 2, 1.0), // zero admission, dropped
	}
	pAdmit := []float64{1, 0, 0}

	spinner.AbsorbSignals(v, inbox, pAdmit)

	assert.Equal(t, 1.0, v.LASignal[0])
	assert.Zero(t, v.LASignal[2])
}
