package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketledger/internal/core"
	applog "pocketledger/internal/log"
	"pocketledger/internal/storage"
	"pocketledger/internal/storage/memory"
)

var errDiskFull = errors.New("disk full")

// flakyStore fails Append while failAppend is set.
type flakyStore struct {
	*memory.Store
	failAppend bool
	loadErr    error
	loadRes    storage.LoadResult
}

func (s *flakyStore) Append(ctx context.Context, tx core.Transaction) error {
	if s.failAppend {
		return errDiskFull
	}
	return s.Store.Append(ctx, tx)
}

func (s *flakyStore) Load(ctx context.Context) (storage.LoadResult, error) {
	if s.loadErr != nil {
		return s.loadRes, s.loadErr
	}
	return s.Store.Load(ctx)
}

type recordingNotifier struct {
	got []core.Transaction
	err error
}

func (n *recordingNotifier) TransactionRecorded(_ context.Context, tx core.Transaction) error {
	n.got = append(n.got, tx)
	return n.err
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 6, 1, 12, 0, 0, 500, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *flakyStore) {
	t.Helper()
	store := &flakyStore{Store: memory.New()}
	opts = append([]Option{WithClock(fixedClock()), WithLogger(applog.Discard())}, opts...)
	return New(store, store, opts...), store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustAdd(t *testing.T, l *Ledger, kind core.Kind, category, amount string) core.Transaction {
	t.Helper()
	tx, err := l.Add(context.Background(), kind, category, dec(amount), "")
	require.NoError(t, err)
	return tx
}

func TestEmptyLedger(t *testing.T) {
	l, _ := newTestLedger(t)

	assert.True(t, l.Balance().IsZero())
	assert.Empty(t, l.SummaryByCategory())
	assert.Zero(t, l.Len())
}

func TestAddChangesLengthAndBalance(t *testing.T) {
	cases := []struct {
		kind   core.Kind
		amount string
		delta  string
	}{
		{core.Income, "1000", "1000"},
		{core.Expense, "200", "-200"},
		{core.Expense, "0.01", "-0.01"},
		{core.Income, "12.345", "12.345"},
	}
	l, store := newTestLedger(t)
	for _, tc := range cases {
		before, n := l.Balance(), l.Len()

		tx, err := l.Add(context.Background(), tc.kind, "Cat", dec(tc.amount), "note")
		require.NoError(t, err)

		assert.Equal(t, n+1, l.Len())
		assert.True(t, l.Balance().Equal(before.Add(dec(tc.delta))), "balance after %s %s", tc.kind, tc.amount)
		assert.Equal(t, tc.kind, tx.Kind)
		assert.False(t, tx.Timestamp.IsZero())
		assert.Zero(t, tx.Timestamp.Nanosecond())
	}
	assert.Equal(t, len(cases), store.Len())
}

func TestAddRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		kind     core.Kind
		category string
		amount   string
		want     error
	}{
		{"zero amount", core.Expense, "Food", "0", core.ErrInvalidAmount},
		{"negative amount", core.Income, "Salary", "-10", core.ErrInvalidAmount},
		{"unknown kind", core.Kind("Transfer"), "Food", "10", core.ErrInvalidKind},
		{"empty kind", core.Kind(""), "Food", "10", core.ErrInvalidKind},
		{"blank category", core.Expense, "  ", "10", core.ErrEmptyCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, store := newTestLedger(t)
			mustAdd(t, l, core.Income, "Seed", "5")
			before := l.Balance()

			_, err := l.Add(context.Background(), tc.kind, tc.category, dec(tc.amount), "")

			var ve *core.ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 1, l.Len())
			assert.True(t, l.Balance().Equal(before))
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestAddTrimsCategoryAndDescription(t *testing.T) {
	l, _ := newTestLedger(t)
	tx, err := l.Add(context.Background(), core.Expense, "  Food ", dec("3"), " lunch ")
	require.NoError(t, err)
	assert.Equal(t, "Food", tx.Category)
	assert.Equal(t, "lunch", tx.Description)
}

func TestAddRollsBackWhenPersistFails(t *testing.T) {
	n := &recordingNotifier{}
	l, store := newTestLedger(t, WithNotifier(n))
	mustAdd(t, l, core.Income, "Salary", "100")

	store.failAppend = true
	_, err := l.Add(context.Background(), core.Expense, "Food", dec("30"), "")

	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Balance().Equal(dec("100")))
	assert.Len(t, n.got, 1, "notifier must only see persisted transactions")
}

func TestNotifierFailureDoesNotFailAdd(t *testing.T) {
	n := &recordingNotifier{err: errors.New("broker down")}
	l, _ := newTestLedger(t, WithNotifier(n))

	_, err := l.Add(context.Background(), core.Income, "Salary", dec("1"), "")
	require.NoError(t, err)
	assert.Len(t, n.got, 1)
	assert.Equal(t, 1, l.Len())
}

func TestSalaryAndFoodScenario(t *testing.T) {
	l, _ := newTestLedger(t)
	mustAdd(t, l, core.Income, "Salary", "1000")
	mustAdd(t, l, core.Expense, "Food", "200")

	assert.True(t, l.Balance().Equal(dec("800")))
	summary := l.SummaryByCategory()
	require.Len(t, summary, 2)
	assert.True(t, summary["Salary"].Equal(dec("1000")))
	assert.True(t, summary["Food"].Equal(dec("-200")))
}

func TestSummaryAccumulatesPerCategory(t *testing.T) {
	l, _ := newTestLedger(t)
	mustAdd(t, l, core.Expense, "Food", "50")
	mustAdd(t, l, core.Expense, "Food", "30")

	assert.True(t, l.SummaryByCategory()["Food"].Equal(dec("-80")))
}

func TestSummarySumsToBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	mustAdd(t, l, core.Income, "Salary", "1500.25")
	mustAdd(t, l, core.Expense, "Rent", "700")
	mustAdd(t, l, core.Expense, "Food", "45.10")
	mustAdd(t, l, core.Income, "Food", "5")
	mustAdd(t, l, core.Expense, "Salary", "0.25")

	total := decimal.Zero
	for _, v := range l.SummaryByCategory() {
		total = total.Add(v)
	}
	assert.True(t, total.Equal(l.Balance()), "summary %s != balance %s", total, l.Balance())
}

func TestLoadReplacesContent(t *testing.T) {
	seed := core.Transaction{
		Timestamp: time.Date(2024, 12, 31, 23, 0, 0, 0, time.Local),
		Kind:      core.Income,
		Category:  "Bonus",
		Amount:    dec("50"),
	}
	store := &flakyStore{Store: memory.New(seed)}
	l := New(store, store, WithLogger(applog.Discard()))

	report, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadReport{Loaded: 1}, report)
	assert.True(t, l.Balance().Equal(dec("50")))

	// loading again does not duplicate
	_, err = l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestLoadKeepsPartialDataOnError(t *testing.T) {
	partial := storage.LoadResult{
		Transactions: []core.Transaction{{
			Timestamp: time.Now(), Kind: core.Expense, Category: "Food", Amount: dec("4"),
		}},
		Skipped: 2,
	}
	store := &flakyStore{
		Store:   memory.New(),
		loadErr: &storage.LoadError{Path: "x.csv", Err: errors.New("read failed")},
		loadRes: partial,
	}
	l := New(store, store, WithLogger(applog.Discard()))

	report, err := l.Load(context.Background())
	var le *storage.LoadError
	assert.True(t, errors.As(err, &le))
	assert.Equal(t, LoadReport{Loaded: 1, Skipped: 2}, report)
	assert.True(t, l.Balance().Equal(dec("-4")))
}

func TestLoadFromCSVSkipsMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"Date,Type,Category,Amount,Description",
		"2025-01-01 10:00:00,Income,Salary,1000,",
		"2025-01-02 10:00:00,Expense,Food,200",
		"2025-01-03 10:00:00,Expense,Food,50,dinner",
		"",
	}, "\n")), 0o644))
	store := storage.NewCSVStore(path, nil)
	l := New(store, store, WithLogger(applog.Discard()))

	report, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, LoadReport{Loaded: 2, Skipped: 1}, report)
	assert.True(t, l.Balance().Equal(dec("950")))
}

func TestExportThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewCSVStore(filepath.Join(dir, "transactions.csv"), nil)
	require.NoError(t, store.Ensure())
	l := New(store, store, WithClock(fixedClock()), WithLogger(applog.Discard()))

	ctx := context.Background()
	_, err := l.Add(ctx, core.Income, "Salary", dec("1000"), "June, net")
	require.NoError(t, err)
	_, err = l.Add(ctx, core.Expense, "Food", dec("19.99"), "")
	require.NoError(t, err)
	_, err = l.Add(ctx, core.Expense, "Rent", dec("700"), `flat "B"`)
	require.NoError(t, err)

	dest := filepath.Join(dir, "export.csv")
	require.NoError(t, l.ExportAll(ctx, dest))

	exported := storage.NewCSVStore(dest, nil)
	reloaded := New(exported, exported, WithLogger(applog.Discard()))
	_, err = reloaded.Load(ctx)
	require.NoError(t, err)

	want, got := l.Transactions(), reloaded.Transactions()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "row %d", i)
		assert.Equal(t, want[i].Kind, got[i].Kind, "row %d", i)
		assert.Equal(t, want[i].Category, got[i].Category, "row %d", i)
		assert.True(t, want[i].Amount.Equal(got[i].Amount), "row %d", i)
		assert.Equal(t, want[i].Description, got[i].Description, "row %d", i)
	}
}

func TestExportAllMissingDestination(t *testing.T) {
	l, _ := newTestLedger(t)
	mustAdd(t, l, core.Income, "Salary", "1")

	err := l.ExportAll(context.Background(), filepath.Join(t.TempDir(), "nope", "out.csv"))
	assert.ErrorIs(t, err, storage.ErrDestinationMissing)
}

func TestTransactionsReturnsCopy(t *testing.T) {
	l, _ := newTestLedger(t)
	mustAdd(t, l, core.Income, "Salary", "1")

	txs := l.Transactions()
	txs[0].Category = "changed"
	assert.Equal(t, "Salary", l.Transactions()[0].Category)
}
