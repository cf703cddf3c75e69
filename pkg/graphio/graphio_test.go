package graphio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/graphio"
)

func TestReadVertexValuesAcceptsAllSeparators(t *testing.T) {
	input := "1\x012\n2\t0\n3 -1\n4\n"
	records, err := graphio.ReadVertexValues(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.EqualValues(t, 1, records[0].ID)
	assert.EqualValues(t, 2, records[0].PriorPartition)
	assert.EqualValues(t, 4, records[3].ID)
	assert.EqualValues(t, -1, records[3].PriorPartition, "missing prior partition defaults to -1")
}

func TestReadVertexValuesRejectsMalformedID(t *testing.T) {
	_, err := graphio.ReadVertexValues(strings.NewReader("not-a-number 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestReadEdgesDefaultsWeight(t *testing.T) {
	records, err := graphio.ReadEdges(strings.NewReader("1 2\n3\t4\t5\n"), 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.EqualValues(t, 1, records[0].Weight)
	assert.EqualValues(t, 5, records[1].Weight)
}

func TestReadEdgesRejectsTooFewFields(t *testing.T) {
	_, err := graphio.ReadEdges(strings.NewReader("1\n"), 1)
	require.Error(t, err)
}

func TestWritePartitionsSortsByVertexID(t *testing.T) {
	var buf bytes.Buffer
	err := graphio.WritePartitions(&buf, []graphio.Assignment{
		{VertexID: 5, Partition: 1},
		{VertexID: 1, Partition: 0},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "1 0\n5 1\n", buf.String())
}

func TestWritePartitionsCustomDelimiter(t *testing.T) {
	var buf bytes.Buffer
	err := graphio.WritePartitions(&buf, []graphio.Assignment{{VertexID: 1, Partition: 2}}, "\t")
	require.NoError(t, err)
	assert.Equal(t, "1\t2\n", buf.String())
}
