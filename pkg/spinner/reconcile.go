package spinner

import (
	"github.com/okapi-spinner/spinner/pkg/graph"
	"github.com/okapi-spinner/spinner/pkg/messages"
)

// Reconcile is the edge reconciler: for every announced sourceId u
// this vertex received in the propagate stage, ensure an
// edge back to u exists, marking it directed-present if it was
// already known from the raw input, directed-absent otherwise.
// Running it twice on an already-reciprocated set of announcements is
// a no-op (EnsureReciprocalEdge only flips the flag once).
func Reconcile(g *graph.Graph, vertexID int64, announcements []messages.PartitionMessage, defaultWeight int8) {
	for _, m := range announcements {
		g.EnsureReciprocalEdge(vertexID, m.SourceID, defaultWeight)
	}
}
