package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietddude/docqueue/internal/control"
	"github.com/vietddude/docqueue/internal/core/domain"
)

var enqueueCmd = &cobra.Command{
	Use:          "enqueue URL...",
	Short:        "Append URLs to the end of the queue",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runEnqueue,
}

func init() {
	rootCmd.AddCommand(enqueueCmd)
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	st, err := control.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	n, err := enqueue(ctx, st, args)
	if err != nil {
		return fmt.Errorf("failed to enqueue: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Queued %d URLs\n", n)
	return nil
}

// enqueue appends the non-blank args and returns how many were queued.
func enqueue(ctx context.Context, st *control.Storage, args []string) (int, error) {
	items := domain.CleanItems(args)
	if len(items) == 0 {
		return 0, nil
	}
	if err := st.Store.Append(ctx, items...); err != nil {
		return 0, err
	}
	return len(items), nil
}
