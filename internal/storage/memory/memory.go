package memory

import (
	"context"
	"io"
	"sync"

	"pocketledger/internal/core"
	"pocketledger/internal/storage"
)

// Store keeps transactions in process memory only. Exports still go to disk so
// a dry-run session can be saved explicitly.
type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New(seed ...core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), seed...)}
}

// Load returns a copy of the stored transactions.
func (s *Store) Load(_ context.Context) (storage.LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.LoadResult{Transactions: append([]core.Transaction(nil), s.items...)}, nil
}

// Append stores the transaction.
func (s *Store) Append(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return nil
}

func (s *Store) Export(_ context.Context, dest string, txs []core.Transaction) error {
	return storage.WriteFileAtomic(dest, func(w io.Writer) error {
		return storage.EncodeCSV(w, txs)
	})
}

func (s *Store) Extension() string {
	return storage.Extension
}

// Len reports how many transactions are held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
