package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"

	applog "pocketledger/internal/log"
)

const (
	BackendCSV    = "csv"
	BackendMemory = "memory"
)

type Config struct {
	// Storage
	Backend    string `env:"LEDGER_BACKEND" envDefault:"csv"`
	LedgerFile string `env:"LEDGER_FILE" envDefault:"transactions.csv"`

	// Charts and exports land here; see DefaultOutputDir
	OutputDir   string `env:"LEDGER_OUTPUT_DIR"`
	ChartWidth  int    `env:"CHART_WIDTH" envDefault:"1200"`
	ChartHeight int    `env:"CHART_HEIGHT" envDefault:"600"`

	// Presentation
	Currency string `env:"LEDGER_CURRENCY" envDefault:"TL"`
	NoColor  bool   `env:"NO_COLOR"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// AMQP (disabled when URL is empty)
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"ledger"`
	AMQPQueue    string `env:"AMQP_QUEUE" envDefault:"transactions"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir()
	}
	return cfg, nil
}

// DefaultOutputDir picks the user's Desktop when there is one, then the home
// directory, then the working directory.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	desktop := filepath.Join(home, "Desktop")
	if info, err := os.Stat(desktop); err == nil && info.IsDir() {
		return desktop
	}
	return home
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch c.Backend {
	case BackendCSV:
		if strings.TrimSpace(c.LedgerFile) == "" {
			errors = append(errors, "ledger file cannot be empty when using csv backend")
		}
	case BackendMemory:
	default:
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of [%s %s]", c.Backend, BackendCSV, BackendMemory))
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		errors = append(errors, "output directory cannot be empty")
	}

	if c.ChartWidth < 200 || c.ChartWidth > 8000 {
		errors = append(errors, fmt.Sprintf("invalid chart width %d: must be between 200 and 8000", c.ChartWidth))
	}
	if c.ChartHeight < 200 || c.ChartHeight > 8000 {
		errors = append(errors, fmt.Sprintf("invalid chart height %d: must be between 200 and 8000", c.ChartHeight))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AMQPEnabled reports whether transaction events should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}
