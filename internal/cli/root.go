package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/docqueue/internal/control"
	"github.com/vietddude/docqueue/internal/core/config"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "docqueue",
	Short: "Documentation ingestion queue runner",
	Long: `docqueue drains a queue of documentation URLs one at a time, handing each
to the ingestion service, retrying timeouts with increasing backoff and
recording items that fail for good.`,
	Run: runQueue,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// setup loads .env and the config file, then installs the default logger.
func setup() (*config.AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		return nil, err
	}

	slogLevel := slog.LevelInfo
	switch {
	case isDebug || cfg.Logging.Level == "debug":
		slogLevel = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		slogLevel = slog.LevelWarn
	case cfg.Logging.Level == "error":
		slogLevel = slog.LevelError
	}

	if cfg.Logging.Format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})))
	} else {
		stylelog.InitDefault(&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	}
	return cfg, nil
}

// newRunner builds the runner or exits.
func newRunner(ctx context.Context, cfg *config.AppConfig) *control.Runner {
	runner, err := control.NewRunner(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize runner", "error", err)
		os.Exit(1)
	}
	return runner
}

func runQueue(cmd *cobra.Command, args []string) {
	cfg, err := setup()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// SIGINT/SIGTERM stop the drain between suspension points; the item in
	// flight stays at the head of the queue.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := newRunner(ctx, cfg)
	runner.Start()

	report := runner.RunQueue(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := runner.Close(shutdownCtx); err != nil {
		slog.Warn("Error during shutdown", "error", err)
	}

	if report.IsError {
		fmt.Fprintln(os.Stderr, report.Text)
		os.Exit(1)
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Text)
}
