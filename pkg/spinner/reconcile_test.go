package spinner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/messages"
	"github.com/okapi-spinner/spinner/pkg/spinner"
)

func TestReconcileMarksKnownEdgeDirectedPresent(t *testing.T) {
	g := graph.NewGraph()
	g.AddInputEdge(1, 2, 1) // 1 -> 2 known from raw input

	spinner.Reconcile(g, 1, []messages.PartitionMessage{{SourceID: 2}}, 1)

	edges := g.Neighbors[1]
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Directed)
}

func TestReconcileAddsDirectedAbsentEdgeForUnknownNeighbor(t *testing.T) {
	g := graph.NewGraph()
	g.EnsureVertex(1)

	spinner.Reconcile(g, 1, []messages.PartitionMessage{{SourceID: 9}}, 1)

	edges := g.Neighbors[1]
	require.Len(t, edges, 1)
	assert.Equal(t, int64(9), edges[0].NeighborID)
	assert.False(t, edges[0].Directed)
}

func TestReconcileIsIdempotent(t *testing.T) {
	g := graph.NewGraph()
	g.AddInputEdge(1, 2, 1)
	announcements := []messages.PartitionMessage{{SourceID: 2}}

	spinner.Reconcile(g, 1, announcements, 1)
	before := len(g.Neighbors[1])

	spinner.Reconcile(g, 1, announcements, 1)

	assert.Len(t, g.Neighbors[1], before)
}
