// Package graph holds the partitioning engine's data model: the
// symmetric adjacency built by edge reconciliation, per-vertex state
// (partition labels, learning-automaton vectors), and the per-edge
// state stored on the source vertex.
package graph

// NeighborEdge is the edge state kept on the source vertex, one entry
// per neighbor.
type NeighborEdge struct {
	NeighborID int64
	Partition  int16 // last known label of the neighbor; -1 before the neighbor announces
	Weight     int8
	Directed   bool // was this edge present in the raw input, or added by reconciliation
}

// VertexState is owned exclusively by the shard holding this vertex's
// ID.
type VertexState struct {
	ID                int64
	CurrentPartition  int16
	NewPartition      int16
	NumDirectedEdges  int64
	LAProbability     []float64
	LASignal          []float64
}

// NewVertexState returns a freshly allocated, unpartitioned vertex.
// CurrentPartition and NewPartition start at -1, meaning "not yet
// assigned a label."
func NewVertexState(id int64) *VertexState {
	return &VertexState{
		ID:               id,
		CurrentPartition: -1,
		NewPartition:     -1,
	}
}

// Graph is the adjacency owned by a single shard: every vertex the
// shard hosts, plus that vertex's neighbor list (which may include
// neighbors hosted on other shards).
type Graph struct {
	Vertices  map[int64]*VertexState
	Neighbors map[int64][]*NeighborEdge
}

func NewGraph() *Graph {
	return &Graph{
		Vertices:  make(map[int64]*VertexState),
		Neighbors: make(map[int64][]*NeighborEdge),
	}
}

// EnsureVertex returns the VertexState for id, creating it if this is
// the first time the shard has seen this vertex.
func (g *Graph) EnsureVertex(id int64) *VertexState {
	if v, ok := g.Vertices[id]; ok {
		return v
	}
	v := NewVertexState(id)
	g.Vertices[id] = v
	return v
}

// AddInputEdge records a directed-present edge u->v discovered from
// the raw input, on the shard hosting u.
func (g *Graph) AddInputEdge(u, v int64, weight int8) {
	g.EnsureVertex(u)
	if g.findNeighbor(u, v) != nil {
		return
	}
	g.Neighbors[u] = append(g.Neighbors[u], &NeighborEdge{
		NeighborID: v,
		Partition:  -1,
		Weight:     weight,
		Directed:   true,
	})
}

// EnsureReciprocalEdge is used by the edge reconciler: if u already
// holds an edge to v, mark it directed-present (it existed on both
// sides in the raw input); otherwise create a new, directed-absent
// edge with the default weight.
func (g *Graph) EnsureReciprocalEdge(u, v int64, defaultWeight int8) {
	g.EnsureVertex(u)
	if existing := g.findNeighbor(u, v); existing != nil {
		existing.Directed = true
		return
	}
	g.Neighbors[u] = append(g.Neighbors[u], &NeighborEdge{
		NeighborID: v,
		Partition:  -1,
		Weight:     defaultWeight,
		Directed:   false,
	})
}

func (g *Graph) findNeighbor(u, v int64) *NeighborEdge {
	for _, n := range g.Neighbors[u] {
		if n.NeighborID == v {
			return n
		}
	}
	return nil
}

// NotifyLabel is the "neighbor label cache" abstraction from the
// design notes: it updates the cached partition of neighbor id on
// every edge that points at it from vertex owner, without relying on
// the caller mutating an iterator-visited value in place.
func (g *Graph) NotifyLabel(owner, neighborID int64, partition int16) {
	if n := g.findNeighbor(owner, neighborID); n != nil {
		n.Partition = partition
	}
}

// CountDirectedEdges finalizes NumDirectedEdges for every local vertex
// after reconciliation and returns the shard-local total.
func (g *Graph) CountDirectedEdges() int64 {
	var total int64
	for id, v := range g.Vertices {
		var n int64
		for _, e := range g.Neighbors[id] {
			if e.Directed {
				n++
			}
		}
		v.NumDirectedEdges = n
		total += n
	}
	return total
}
