package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/docqueue/internal/control"
)

var failureLimit int

var statusCmd = &cobra.Command{
	Use:          "status",
	Short:        "Show pending items and recent failures",
	SilenceUsage: true,
	RunE:         runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&failureLimit, "failures", 10, "number of recent failures to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	return printStatus(ctx, cmd.OutOrStdout(), st, failureLimit)
}

func printStatus(ctx context.Context, out io.Writer, st *control.Storage, limit int) error {
	exists, err := st.Store.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check queue: %w", err)
	}

	if !exists {
		_, _ = fmt.Fprintln(out, "Queue does not exist")
	} else {
		items, err := st.Store.ReadAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to read queue: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Pending: %d URLs\n", len(items))
		if len(items) > 0 {
			_, _ = fmt.Fprintf(out, "Next: %s\n", items[0])
		}
	}

	if st.Journal == nil || limit <= 0 {
		return nil
	}
	failures, err := st.Journal.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list failures: %w", err)
	}
	if len(failures) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "FAILED AT\tKIND\tATTEMPTS\tURL")
	for _, f := range failures {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.FailedAt.Format(time.RFC3339), f.Kind, f.Attempts, f.Item)
	}
	return w.Flush()
}
