package backend

import (
	"fmt"
	"strings"

	"pocketledger/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.Backend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s (valid: %s)", appConfig.Backend, validTypes())
	}

	cfg := Config{
		Type:       backendType,
		LedgerFile: appConfig.LedgerFile,
	}
	if appConfig.AMQPEnabled() {
		cfg.PublishEvents = true
		cfg.AMQPURL = appConfig.AMQPURL
		cfg.AMQPExchange = appConfig.AMQPExchange
		cfg.AMQPQueue = appConfig.AMQPQueue
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s (valid: %s)", c.Type, validTypes())
	}
	if c.PublishEvents && c.AMQPURL == "" {
		return fmt.Errorf("AMQP URL is required when publishing events")
	}
	if c.Type == CSVBackend && c.LedgerFile == "" {
		return fmt.Errorf("ledger file is required for csv backend")
	}
	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{CSVBackend, MemoryBackend}
}

func validTypes() string {
	types := GetBackendTypes()
	names := make([]string, len(types))
	for i, bt := range types {
		names[i] = bt.String()
	}
	return strings.Join(names, ", ")
}
