package amqp

import (
	"encoding/json"
	"time"

	"pocketledger/internal/core"
)

// TransactionRecordedMessage announces a transaction that was durably added
// to the ledger. Amount is a decimal string to avoid float rounding.
type TransactionRecordedMessage struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Category    string    `json:"category"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Timestamp   string    `json:"timestamp"`
	PublishedAt time.Time `json:"published_at"`
}

// NewTransactionRecordedMessage builds the event for tx under the given message id.
func NewTransactionRecordedMessage(id string, tx core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:          id,
		Kind:        tx.Kind.String(),
		Category:    tx.Category,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Timestamp:   tx.Timestamp.Format(core.TimestampLayout),
		PublishedAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
