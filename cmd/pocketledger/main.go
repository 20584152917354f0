package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"pocketledger/internal/backend"
	"pocketledger/internal/chart"
	"pocketledger/internal/cli"
	"pocketledger/internal/console"
	"pocketledger/internal/ledger"
	applog "pocketledger/internal/log"
	"pocketledger/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	if err := run(context.Background()); err != nil {
		cli.Fatal(err)
	}
}

// run owns every resource it opens, so deferred cleanup happens before main
// exits with a failure status.
func run(ctx context.Context) error {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldBackend, backendCfg.Type, applog.FieldError, err)
		return err
	}
	if res.Cleanup != nil {
		defer func() {
			if err := res.Cleanup(); err != nil {
				logger.Warn("Cleanup failed", applog.FieldError, err)
			}
		}()
	}

	opts := []ledger.Option{ledger.WithLogger(logger.WithComponent(applog.ComponentLedger))}
	if res.Notifier != nil {
		opts = append(opts, ledger.WithNotifier(res.Notifier))
	}
	l := ledger.New(res.Backend, res.Backend, opts...)

	report, err := l.Load(ctx)
	if err != nil {
		var le *storage.LoadError
		if !errors.As(err, &le) {
			return err
		}
		color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: could not read %s completely: %v\n", le.Path, le.Err)
	}
	if report.Skipped > 0 {
		color.New(color.FgYellow).Fprintf(os.Stderr, "Warning: skipped %d malformed record(s)\n", report.Skipped)
	}
	logger.Info("Starting pocketledger",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, backendCfg.Type.String(),
		applog.FieldCount, report.Loaded)

	renderer := chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight, cfg.Currency, logger)
	c := console.New(os.Stdin, os.Stdout, l, renderer, console.Options{
		OutputDir: cfg.OutputDir,
		Currency:  cfg.Currency,
		Extension: res.Backend.Extension(),
		NoColor:   cfg.NoColor || color.NoColor,
	}, logger)

	if err := c.Run(ctx); err != nil {
		logger.Error("Console stopped", applog.FieldError, err)
		return fmt.Errorf("console: %w", err)
	}
	logger.Info("Stopped", applog.FieldOperation, applog.OpShutdown)
	return nil
}
