package cli

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process queued URLs one at a time until the queue is empty",
	Run:   runQueue,
}

func init() {
	rootCmd.AddCommand(runCmd)
}
