package backend

import (
	"context"

	"pocketledger/internal/config"
	"pocketledger/internal/ledger"
)

// Backend is everything the ledger needs from persistence.
type Backend interface {
	ledger.Store
	ledger.Exporter
	// Extension is the file extension exports should carry.
	Extension() string
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance, the optional notifier and a
// cleanup function for both.
type BackendResult struct {
	Backend  Backend
	Notifier ledger.Notifier
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// CSV specific
	LedgerFile string

	// Optional event publishing
	PublishEvents bool
	AMQPURL       string
	AMQPExchange  string
	AMQPQueue     string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = config.BackendCSV
	MemoryBackend BackendType = config.BackendMemory
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
