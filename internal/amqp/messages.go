package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message op codes.
const (
	OpSync   = "sync"
	OpDelete = "delete"
)

// SyncMessage tells the worker to mirror one transaction to the backup
// sheet (or remove it). Only id and version travel on the wire; the worker
// fetches the full row from the database.
type SyncMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(id, version int64) *SyncMessage {
	return &SyncMessage{Op: OpSync, ID: id, Version: version, Timestamp: time.Now()}
}

func NewDeleteMessage(id int64) *SyncMessage {
	return &SyncMessage{Op: OpDelete, ID: id, Timestamp: time.Now()}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Op {
	case OpSync, OpDelete:
	default:
		return nil, fmt.Errorf("unknown op %q", msg.Op)
	}
	if msg.ID == 0 {
		return nil, fmt.Errorf("missing transaction id")
	}
	return &msg, nil
}
