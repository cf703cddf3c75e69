package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okapi-spinner/spinner/pkg/messages"
)

func TestPartitionMessageRoundTripIsBitExact(t *testing.T) {
	original := messages.NewPartitionMessageWithSignal(-42, 7, 3.14159265)

	data, err := original.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 18)

	var decoded messages.PartitionMessage
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.Equal(t, original, decoded)
}

func TestPartitionMessageDefaultSignalCanonicalizesToZero(t *testing.T) {
	m := messages.NewPartitionMessage(1, 2)
	assert.Equal(t, 0.0, m.Signal)
}

func TestPartitionMessageUnmarshalRejectsWrongSize(t *testing.T) {
	var m messages.PartitionMessage
	err := m.UnmarshalBinary([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEdgeValueRoundTripIsBitExact(t *testing.T) {
	original := messages.EdgeValue{Partition: 12, Weight: -3}

	data, err := original.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, 3)

	var decoded messages.EdgeValue
	require.NoError(t, decoded.UnmarshalBinary(data))

	assert.Equal(t, original, decoded)
}
