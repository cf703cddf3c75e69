package crdt

import "encoding/json"

// wireEntry mirrors MigrationEntry with exported JSON tags so the
// audit log can be dumped alongside the final partition assignments.
type wireEntry struct {
	VertexID  int64 `json:"vertex_id"`
	Superstep int   `json:"superstep"`
	From      int16 `json:"from"`
	To        int16 `json:"to"`
	Migrated  bool  `json:"migrated"`
}

func (l *MigrationLog) MarshalJSON() ([]byte, error) {
	snapshot := l.Snapshot()
	wire := make([]wireEntry, len(snapshot))
	for i, e := range snapshot {
		wire[i] = wireEntry{
			VertexID:  e.VertexID,
			Superstep: e.Superstep,
			From:      e.From,
			To:        e.To,
			Migrated:  e.Migrated,
		}
	}
	return json.Marshal(wire)
}

func (l *MigrationLog) UnmarshalJSON(data []byte) error {
	var wire []wireEntry
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[int64]MigrationEntry, len(wire))
	for _, w := range wire {
		l.entries[w.VertexID] = MigrationEntry{
			VertexID:  w.VertexID,
			Superstep: w.Superstep,
			From:      w.From,
			To:        w.To,
			Migrated:  w.Migrated,
		}
	}
	return nil
}
