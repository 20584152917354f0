// Package storage persists the ledger as a flat CSV file.
package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pocketledger/internal/core"
	applog "pocketledger/internal/log"
)

// Extension is appended to export file names that lack it.
const Extension = ".csv"

// Header is the schema row written at the top of every ledger file.
var Header = []string{"Date", "Type", "Category", "Amount", "Description"}

// LoadResult is what a store read produced.
type LoadResult struct {
	Transactions []core.Transaction
	Skipped      int
}

// CSVStore reads and appends transactions to a single CSV file. It opens the
// file for every operation and never holds a handle between calls.
type CSVStore struct {
	path     string
	location *time.Location
	logger   *applog.Logger
}

func NewCSVStore(path string, logger *applog.Logger) *CSVStore {
	if logger == nil {
		logger = applog.Default()
	}
	return &CSVStore{path: path, location: time.Local, logger: logger}
}

func (s *CSVStore) Path() string {
	return s.path
}

func (s *CSVStore) Extension() string {
	return Extension
}

// Ensure creates the ledger file with a header row if it does not exist yet.
func (s *CSVStore) Ensure() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return classifyWriteError(s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	s.logger.Info("Created ledger file", applog.FieldPath, s.path)
	return nil
}

// Load reads every well-formed transaction from the file. Malformed rows are
// skipped and counted. On a read failure the rows parsed so far are returned
// together with a *LoadError.
func (s *CSVStore) Load(ctx context.Context) (LoadResult, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return LoadResult{}, &LoadError{Path: s.path, Err: err}
	}
	defer f.Close()

	res, err := s.decode(ctx, f)
	if err != nil {
		return res, &LoadError{Path: s.path, Err: err}
	}
	return res, nil
}

func (s *CSVStore) decode(ctx context.Context, r io.Reader) (LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var (
		res     LoadResult
		started bool
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			s.logger.WarnContext(ctx, "Skipping unreadable record",
				applog.FieldPath, s.path, applog.FieldLine, parseErr.StartLine, applog.FieldError, err)
			res.Skipped++
			continue
		}
		if err != nil {
			return res, err
		}

		// only the first readable row may be a header
		first := !started
		started = true
		if first && isHeader(record) {
			continue
		}
		tx, err := s.parseRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			s.logger.WarnContext(ctx, "Skipping malformed record",
				applog.FieldPath, s.path, applog.FieldLine, line, applog.FieldError, err)
			res.Skipped++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}
}

// Append durably adds one transaction to the end of the file, writing the
// header first if the file is new or empty.
func (s *CSVStore) Append(_ context.Context, tx core.Transaction) (err error) {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return classifyWriteError(s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", s.path, cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(formatRecord(tx)); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return classifyWriteError(s.path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	return nil
}

// Export overwrites dest with the header followed by every transaction in
// order. dest's directory must exist.
func (s *CSVStore) Export(_ context.Context, dest string, txs []core.Transaction) error {
	return WriteFileAtomic(dest, func(out io.Writer) error {
		return EncodeCSV(out, txs)
	})
}

// EncodeCSV writes the header and txs in the ledger file format.
func EncodeCSV(out io.Writer, txs []core.Transaction) error {
	w := csv.NewWriter(out)
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, tx := range txs {
		if err := w.Write(formatRecord(tx)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) parseRecord(record []string) (core.Transaction, error) {
	if len(record) != len(Header) {
		return core.Transaction{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(record))
	}
	ts, err := time.ParseInLocation(core.TimestampLayout, strings.TrimSpace(record[0]), s.location)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date: %w", err)
	}
	amount, err := core.ParseAmount(record[3])
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		Timestamp:   ts,
		Kind:        core.NormalizeKind(record[1]),
		Category:    strings.TrimSpace(record[2]),
		Amount:      amount,
		Description: record[4],
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func formatRecord(tx core.Transaction) []string {
	return []string{
		tx.Timestamp.Format(core.TimestampLayout),
		tx.Kind.String(),
		tx.Category,
		tx.Amount.String(),
		tx.Description,
	}
}

func isHeader(record []string) bool {
	if len(record) != len(Header) {
		return false
	}
	for i, h := range Header {
		if !strings.EqualFold(strings.TrimSpace(record[i]), h) {
			return false
		}
	}
	return true
}
