package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger = logger.WithComponent(applog.ComponentWorker)

	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Worker error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(cfg *config.Config, logger *applog.Logger) error {
	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory := backend.NewFactory(logger.Logger)

	primaryCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	primary, err := factory.CreateBackend(ctx, primaryCfg)
	if err != nil {
		return fmt.Errorf("primary ledger: %w", err)
	}
	defer primary.Close()

	mirror, err := factory.CreateBackend(ctx, backend.SheetsConfig(cfg))
	if err != nil {
		return fmt.Errorf("sheets mirror: %w", err)
	}
	defer mirror.Close()

	target, ok := mirror.Store.(ledger.Replacer)
	if !ok {
		return fmt.Errorf("%s backend cannot be used as a mirror", mirror.Type)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("amqp: %w", err)
	}
	defer client.Close()

	w := worker.NewMirrorWorker(primary.Store, target)
	logger.Info("Starting ledger-worker",
		applog.FieldBackend, primary.Type.String(),
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"interval", cfg.MirrorInterval.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeLedgerEvents(gctx, w.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return w.RunPeriodic(gctx, cfg.MirrorInterval)
	})
	return g.Wait()
}
