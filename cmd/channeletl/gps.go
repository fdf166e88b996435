package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamgrid/channel-data-etl/internal/runner"
)

var gpsCmd = &cobra.Command{
	Use:   "gps",
	Short: "Export GPS-waypoint CSV files",
	Long: `GPS fetches POTA parks from the public API, reads the configured SOTA
summits file, and writes per-country waypoint files for the radio's GPS
memory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(func(r *runner.Runner, ctx context.Context) error {
			return r.GPS(ctx)
		})
	},
}

func init() {
	gpsCmd.Flags().Bool("pota", true, "fetch parks from the POTA API")
	gpsCmd.Flags().String("sota", "", "SOTA summits CSV file")

	viper.BindPFlag("pota.enabled", gpsCmd.Flags().Lookup("pota"))
	viper.BindPFlag("inputs.sota", gpsCmd.Flags().Lookup("sota"))

	rootCmd.AddCommand(gpsCmd)
}
