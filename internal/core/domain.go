package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

// TimestampLayout is the on-disk format of Transaction.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

type (
	// Kind tells whether a transaction adds to or subtracts from the balance.
	Kind string

	Transaction struct {
		Timestamp   time.Time
		Kind        Kind
		Category    string
		Amount      decimal.Decimal // always positive; see Signed
		Description string
	}

	// ValidationError reports a transaction field that failed validation.
	ValidationError struct {
		Field string
		Err   error
	}
)

var (
	ErrInvalidKind     = errors.New("kind must be Income or Expense")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrMalformedAmount = errors.New("amount is not a number")
	ErrEmptyCategory   = errors.New("empty category")
	ErrZeroTimestamp   = errors.New("timestamp cannot be zero")
)

// legacy literals written by older ledger files
var kindAliases = map[string]Kind{
	"income":  Income,
	"expense": Expense,
	"gelir":   Income,
	"gider":   Expense,
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NormalizeKind maps user or file input onto a canonical Kind. Unknown input is
// returned trimmed but otherwise untouched so that Validate can reject it.
func NormalizeKind(s string) Kind {
	s = strings.TrimSpace(s)
	if k, ok := kindAliases[strings.ToLower(s)]; ok {
		return k
	}
	return Kind(s)
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return &ValidationError{Field: "kind", Err: fmt.Errorf("%w, got %q", ErrInvalidKind, string(k))}
	}
}

func (k Kind) String() string {
	return string(k)
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return nil
}

// ValidateCategory rejects blank category labels.
func ValidateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Err: ErrZeroTimestamp}
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := ValidateCategory(t.Category); err != nil {
		return err
	}
	return ValidateAmount(t.Amount)
}

// Signed returns the amount with the sign of its effect on the balance.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}
