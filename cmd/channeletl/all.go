package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hamgrid/channel-data-etl/internal/runner"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the channel and GPS exports in one pass",
	Long: `All runs the channels export followed by the gps export. The run fails
only when neither export produces output, so a missing waypoint source
does not abort a working channel export.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(func(r *runner.Runner, ctx context.Context) error {
			return r.All(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
}
