// Package ledger owns the in-memory transaction history and the aggregates
// derived from it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pocketledger/internal/core"
	applog "pocketledger/internal/log"
)

// ErrPersist wraps a failed durable append. The in-memory append is rolled
// back before it is returned, so memory and store stay in sync.
var ErrPersist = errors.New("transaction not saved")

// LoadReport describes the outcome of Load.
type LoadReport struct {
	Loaded  int
	Skipped int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now as the source of transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithNotifier registers a notifier called after every successful Add.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notifier = n }
}

// WithLogger sets the logger. Defaults to a component logger on slog's default handler.
func WithLogger(logger *applog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// Ledger is an append-only, order-preserving list of transactions backed by a
// Store. It is meant for a single caller and is not safe for concurrent use.
type Ledger struct {
	store    Store
	exporter Exporter
	notifier Notifier
	logger   *applog.Logger
	now      func() time.Time
	items    []core.Transaction
}

func New(store Store, exporter Exporter, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		exporter: exporter,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = applog.Default().WithComponent(applog.ComponentLedger)
	}
	return l
}

// Load replaces the current transactions with the store's content. Malformed
// records are skipped. A read failure is returned, but whatever was read
// before it is kept.
func (l *Ledger) Load(ctx context.Context) (LoadReport, error) {
	res, err := l.store.Load(ctx)
	l.items = append([]core.Transaction(nil), res.Transactions...)
	report := LoadReport{Loaded: len(l.items), Skipped: res.Skipped}

	if err != nil {
		l.logger.WarnContext(ctx, "Ledger load incomplete",
			applog.FieldOperation, applog.OpLoad,
			applog.FieldCount, report.Loaded,
			applog.FieldError, err)
		return report, err
	}
	l.logger.InfoContext(ctx, "Ledger loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, report.Loaded,
		applog.FieldSkipped, report.Skipped)
	return report, nil
}

// Add validates and records a new transaction, stamping it with the current
// time. Validation failures return a *core.ValidationError and change nothing.
func (l *Ledger) Add(ctx context.Context, kind core.Kind, category string, amount decimal.Decimal, description string) (core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := core.ValidateAmount(amount); err != nil {
		return core.Transaction{}, err
	}
	if err := core.ValidateCategory(category); err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Timestamp:   l.now().Round(0).Truncate(time.Second),
		Kind:        kind,
		Category:    strings.TrimSpace(category),
		Amount:      amount,
		Description: strings.TrimSpace(description),
	}

	l.items = append(l.items, tx)
	if err := l.store.Append(ctx, tx); err != nil {
		l.items = l.items[:len(l.items)-1]
		l.logger.ErrorContext(ctx, "Durable append failed, rolled back",
			applog.NewFields().WithOperation(applog.OpAppend).WithTransaction(tx).WithError(err).ToSlice()...)
		return core.Transaction{}, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	l.logger.InfoContext(ctx, "Transaction recorded",
		applog.NewFields().WithOperation(applog.OpAppend).WithTransaction(tx).ToSlice()...)

	if l.notifier != nil {
		if err := l.notifier.TransactionRecorded(ctx, tx); err != nil {
			l.logger.WarnContext(ctx, "Failed to publish transaction event", applog.FieldError, err)
		}
	}
	return tx, nil
}

// Balance is the signed sum of all transactions: income adds, expense subtracts.
func (l *Ledger) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range l.items {
		total = total.Add(tx.Signed())
	}
	return total
}

// SummaryByCategory returns the signed net per category. Categories without
// transactions are absent.
func (l *Ledger) SummaryByCategory() map[string]decimal.Decimal {
	summary := make(map[string]decimal.Decimal)
	for _, tx := range l.items {
		summary[tx.Category] = summary[tx.Category].Add(tx.Signed())
	}
	return summary
}

// ExportAll writes every transaction in insertion order to dest, replacing
// any existing file.
func (l *Ledger) ExportAll(ctx context.Context, dest string) error {
	if err := l.exporter.Export(ctx, dest, l.Transactions()); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}
	l.logger.InfoContext(ctx, "Ledger exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldPath, dest,
		applog.FieldCount, len(l.items))
	return nil
}

func (l *Ledger) Len() int {
	return len(l.items)
}

// Transactions returns a copy of the history in insertion order.
func (l *Ledger) Transactions() []core.Transaction {
	return append([]core.Transaction(nil), l.items...)
}
