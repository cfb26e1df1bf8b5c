package control

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vietddude/docqueue/internal/core/config"
	"github.com/vietddude/docqueue/internal/core/domain"
	"github.com/vietddude/docqueue/internal/drain"
	"github.com/vietddude/docqueue/internal/health"
	"github.com/vietddude/docqueue/internal/infra/ingest"
	"github.com/vietddude/docqueue/internal/infra/storage"
)

// Runner wires the queue store, ingestion transport, failure journal and
// health server around a drainer.
type Runner struct {
	cfg       *config.AppConfig
	stores    *Storage
	processor ingest.Processor
	drainer   *drain.Drainer
	monitor   *health.Monitor
	server    *health.Server
	closers   []func() error
	log       *slog.Logger
}

// NewRunner builds every dependency described by cfg.
func NewRunner(ctx context.Context, cfg *config.AppConfig) (*Runner, error) {
	if err := cfg.ValidateIngest(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		monitor: health.NewMonitor(),
		log:     slog.Default().With("component", "runner", "queue", cfg.Queue.Name),
	}

	if err := r.initStorage(ctx); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	if err := r.initProcessor(); err != nil {
		_ = r.Close(ctx)
		return nil, err
	}

	opts := []drain.Option{}
	if r.stores.Journal != nil {
		opts = append(opts, drain.WithJournal(r.stores.Journal))
	}
	r.drainer = drain.New(r.stores.Store, r.processor, drain.BackoffConfig{
		Base: cfg.Retry.Base,
		Step: cfg.Retry.Step,
		Max:  cfg.Retry.Max,
	}, opts...)

	if cfg.Server.Port > 0 {
		r.server = health.NewServer(r.monitor, cfg.Server.Port)
	}
	return r, nil
}

func (r *Runner) initStorage(ctx context.Context) error {
	st, err := OpenStorage(ctx, r.cfg)
	if err != nil {
		return err
	}
	r.stores = st
	r.closers = append(r.closers, st.Close)

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	r.log.Info("Queue store ready", "backend", r.cfg.Queue.Backend)
	if st.Journal != nil {
		r.log.Info("Recording failed items", "backend", r.cfg.Failures.Backend)
	}
	return nil
}

func (r *Runner) initProcessor() error {
	ic := r.cfg.Ingest
	switch ic.Transport {
	case "grpc":
		p, err := ingest.NewGRPCProcessor(ic.Endpoint, ic.Method, ic.Timeout)
		if err != nil {
			return err
		}
		r.closers = append(r.closers, p.Close)
		r.processor = p
	default:
		r.processor = ingest.NewHTTPProcessor(ic.Endpoint, ic.Timeout, ic.Headers)
	}
	r.log.Info("Ingestion transport ready", "transport", ic.Transport, "endpoint", ic.Endpoint)
	return nil
}

// Start launches the health server when one is configured.
func (r *Runner) Start() {
	if r.server == nil {
		return
	}
	go func() {
		if err := r.server.Start(); err != nil {
			r.log.Error("Health server failed", "error", err)
		}
	}()
	r.log.Info("Health server started", "port", r.cfg.Server.Port)
}

// RunQueue drains the queue once and returns the report.
func (r *Runner) RunQueue(ctx context.Context) domain.Report {
	r.monitor.Started()
	report := r.drainer.RunQueue(ctx)
	r.monitor.Finished(report)
	return report
}

// Store returns the configured queue store.
func (r *Runner) Store() storage.QueueStore {
	return r.stores.Store
}

// Journal returns the failure journal, or nil when none is configured.
func (r *Runner) Journal() storage.FailureJournal {
	return r.stores.Journal
}

// Close stops the health server and releases connections.
func (r *Runner) Close(ctx context.Context) error {
	var errs []error
	if r.server != nil {
		if err := r.server.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
