package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"splitter/internal/core"
)

// SnapshotSavedMessage is published after every successful save. It carries
// the whole ledger and its summary so consumers never read back from storage.
type SnapshotSavedMessage struct {
	ID            uuid.UUID     `json:"id"`
	SavedAt       time.Time     `json:"saved_at"`
	Summary       core.Summary  `json:"summary"`
	Contributions core.ItemList `json:"contributions"`
	Expenses      core.ItemList `json:"expenses"`
}

// NewSnapshotSavedMessage stamps lg and summary with a fresh id and the current time.
func NewSnapshotSavedMessage(lg core.Ledger, summary core.Summary) *SnapshotSavedMessage {
	return &SnapshotSavedMessage{
		ID:            uuid.New(),
		SavedAt:       time.Now().UTC(),
		Summary:       summary,
		Contributions: lg.Contributions.Clone(),
		Expenses:      lg.Expenses.Clone(),
	}
}

// Ledger returns the ledger the snapshot was taken from.
func (m *SnapshotSavedMessage) Ledger() core.Ledger {
	return core.Ledger{Contributions: m.Contributions.Clone(), Expenses: m.Expenses.Clone()}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSavedMessageFromJSON decodes a message and rejects one without an id.
func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == uuid.Nil {
		return nil, errors.New("snapshot message has no id")
	}
	return &msg, nil
}
