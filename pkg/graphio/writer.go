package graphio

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// Assignment is one vertex's final partition, ready to write out.
type Assignment struct {
	VertexID  int64
	Partition int16
}

// WritePartitions writes the output format `<vertexId><delim><finalPartition>`,
// one line per assignment sorted by vertex id for reproducible diffs
// across runs.
func WritePartitions(w io.Writer, assignments []Assignment, delim string) error {
	if delim == "" {
		delim = " "
	}
	sorted := make([]Assignment, len(assignments))
	copy(sorted, assignments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VertexID < sorted[j].VertexID })

	bw := bufio.NewWriter(w)
	for _, a := range sorted {
		if _, err := fmt.Fprintf(bw, "%d%s%d\n", a.VertexID, delim, a.Partition); err != nil {
			return fmt.Errorf("writing partition assignment for vertex %d: %w", a.VertexID, err)
		}
	}
	return bw.Flush()
}
