package ledger

import (
	"context"

	"pocketledger/internal/core"
	"pocketledger/internal/storage"
)

// Ports for outbound adapters.
type (
	// Store is the durable home of the ledger.
	Store interface {
		Load(ctx context.Context) (storage.LoadResult, error)
		Append(ctx context.Context, tx core.Transaction) error
	}

	// Exporter writes a full copy of the ledger to another file.
	Exporter interface {
		Export(ctx context.Context, dest string, txs []core.Transaction) error
	}

	// Notifier is told about every transaction after it has been persisted.
	Notifier interface {
		TransactionRecorded(ctx context.Context, tx core.Transaction) error
	}
)
