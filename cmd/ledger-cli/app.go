package main

import (
	"context"
	"io"
	"os"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/view"
)

// app carries what every subcommand needs once setup has run.
type app struct {
	out    io.Writer
	cfg    *config.Config
	logger *applog.Logger

	// openBackend builds the configured store.
	openBackend func(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*backend.BackendResult, error)

	result    *backend.BackendResult
	publisher *amqp.Client
	svc       *services.LedgerService
	builder   *view.Builder
}

func newApp(out io.Writer) *app {
	return &app{
		out:         out,
		openBackend: openConfiguredBackend,
	}
}

func openConfiguredBackend(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*backend.BackendResult, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
}

// setup loads configuration, opens the store and connects the optional
// event publisher. Logs go to stderr so stdout stays clean for output.
func (a *app) setup(ctx context.Context) error {
	if a.cfg == nil {
		cli.LoadEnvFile()
		cfg, err := cli.LoadConfig()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if a.logger == nil {
		level, _ := applog.ParseLevel(a.cfg.LogLevel)
		a.logger = applog.New(applog.Config{
			Level:     level,
			Component: applog.ComponentCLI,
			Output:    os.Stderr,
		})
	}

	result, err := a.openBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.result = result

	var publisher services.EventPublisher
	if a.cfg.AMQPURL != "" {
		client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
		if err != nil {
			a.logger.Warn("AMQP unavailable, change events disabled", applog.FieldError, err)
		} else {
			a.publisher = client
			publisher = client
		}
	}

	a.svc = services.NewLedgerService(result.Store, publisher)
	a.builder = view.NewBuilder(view.NewCurrency(a.cfg.CurrencySymbol, a.cfg.Locale))
	return nil
}

func (a *app) close() error {
	if a.publisher != nil {
		_ = a.publisher.Close()
		a.publisher = nil
	}
	err := a.result.Close()
	a.result = nil
	return err
}

func (a *app) buildView(ctx context.Context, f view.Filters) (view.View, error) {
	txs, err := a.svc.List(ctx)
	if err != nil {
		return view.View{}, err
	}
	return a.builder.Build(txs, f)
}

func (a *app) logChange(ctx context.Context, op, id string, fields txFlags) {
	applog.NewStructuredLogger(a.logger).LogTransactionChanged(ctx, op, id, fields.txType, fields.category, fields.amount)
}
