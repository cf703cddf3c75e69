// Package messages defines the messages actors exchange during a
// superstep, plus the compact binary wire formats for PartitionMessage
// and the persisted edge value.
package messages

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// PartitionMessage is the only message vertices send each other
// during score-and-propose and admission. On the wire it is exactly
// 18 bytes: int64 sourceId | int16 partition | float64 signal.
//
// A message built without an explicit signal canonicalizes to 0.0,
// not an uninitialized field.
type PartitionMessage struct {
	SourceID  int64
	Partition int16
	Signal    float64
}

func NewPartitionMessage(sourceID int64, partition int16) PartitionMessage {
	return PartitionMessage{SourceID: sourceID, Partition: partition, Signal: 0.0}
}

func NewPartitionMessageWithSignal(sourceID int64, partition int16, signal float64) PartitionMessage {
	return PartitionMessage{SourceID: sourceID, Partition: partition, Signal: signal}
}

func (m PartitionMessage) Type() string { return "PartitionMessage" }

const partitionMessageWireSize = 8 + 2 + 8

// MarshalBinary encodes the message into its 18-byte big-endian wire
// layout.
func (m PartitionMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, partitionMessageWireSize)
	w := bytes.NewBuffer(buf)
	if err := binary.Write(w, binary.BigEndian, m.SourceID); err != nil {
		return nil, err
	}
	if err := binary.Write(w, binary.BigEndian, m.Partition); err != nil {
		return nil, err
	}
	if err := binary.Write(w, binary.BigEndian, m.Signal); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a PartitionMessage from its 18-byte wire
// layout.
func (m *PartitionMessage) UnmarshalBinary(data []byte) error {
	if len(data) != partitionMessageWireSize {
		return fmt.Errorf("%w: PartitionMessage wire size must be %d bytes, got %d", errShortWire, partitionMessageWireSize, len(data))
	}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.BigEndian, &m.SourceID); err != nil {
		return err
	}
	if err := binary.Read(r, binary.BigEndian, &m.Partition); err != nil {
		return err
	}
	return binary.Read(r, binary.BigEndian, &m.Signal)
}

// EdgeValue is the persisted per-neighbor edge state: int16 partition
// | int8 weight, 3 bytes.
type EdgeValue struct {
	Partition int16
	Weight    int8
}

const edgeValueWireSize = 2 + 1

func (e EdgeValue) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, edgeValueWireSize)
	w := bytes.NewBuffer(buf)
	if err := binary.Write(w, binary.BigEndian, e.Partition); err != nil {
		return nil, err
	}
	if err := binary.Write(w, binary.BigEndian, e.Weight); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (e *EdgeValue) UnmarshalBinary(data []byte) error {
	if len(data) != edgeValueWireSize {
		return fmt.Errorf("%w: EdgeValue wire size must be %d bytes, got %d", errShortWire, edgeValueWireSize, len(data))
	}
	r := bytes.NewReader(data)
	if err := binary.Read(r, binary.BigEndian, &e.Partition); err != nil {
		return err
	}
	return binary.Read(r, binary.BigEndian, &e.Weight)
}

var errShortWire = fmt.Errorf("wire decode error")
