package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamgrid/channel-data-etl/internal/runner"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Export memory-channel CSV files",
	Long: `Channels ingests the configured repeater and vendor files, applies the
band plan and deduplication, and writes per-country FM and D-STAR channel
files plus the broadcast and PMR supplements.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(func(r *runner.Runner, ctx context.Context) error {
			return r.Channels(ctx)
		})
	},
}

func init() {
	channelsCmd.Flags().StringSlice("repeaters", nil, "canonical repeater CSV files")
	channelsCmd.Flags().String("vendor", "", "vendor channel CSV file")
	channelsCmd.Flags().String("broadcast", "", "broadcast FM stations CSV file")
	channelsCmd.Flags().String("pmr", "", "PMR channels CSV file")
	channelsCmd.Flags().Int("limit", 0, "maximum channels per export, 0 is unlimited")

	viper.BindPFlag("inputs.repeaters", channelsCmd.Flags().Lookup("repeaters"))
	viper.BindPFlag("inputs.vendor", channelsCmd.Flags().Lookup("vendor"))
	viper.BindPFlag("inputs.broadcast", channelsCmd.Flags().Lookup("broadcast"))
	viper.BindPFlag("inputs.pmr", channelsCmd.Flags().Lookup("pmr"))
	viper.BindPFlag("channel_limit", channelsCmd.Flags().Lookup("limit"))

	rootCmd.AddCommand(channelsCmd)
}
