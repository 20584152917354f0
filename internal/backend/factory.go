package backend

import (
	"context"
	"fmt"

	"pocketledger/internal/amqp"
	applog "pocketledger/internal/log"
	"pocketledger/internal/storage"
	"pocketledger/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Default()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case CSVBackend:
		store := storage.NewCSVStore(config.LedgerFile, f.logger.WithComponent(applog.ComponentStorage))
		if err := store.Ensure(); err != nil {
			return nil, fmt.Errorf("failed to initialize ledger file: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized csv backend", applog.FieldPath, store.Path())
		result = &BackendResult{Backend: store}
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend, nothing will be saved")
		result = &BackendResult{Backend: memory.New()}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	f.attachNotifier(ctx, config, result)
	return result, nil
}

// attachNotifier connects to AMQP when configured. A broker that cannot be
// reached only disables publishing.
func (f *DefaultFactory) attachNotifier(ctx context.Context, config Config, result *BackendResult) {
	if !config.PublishEvents {
		return
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		return
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		applog.FieldExchange, config.AMQPExchange,
		applog.FieldQueue, config.AMQPQueue)
	result.Notifier = client
	result.Cleanup = client.Close
}
