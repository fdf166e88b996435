// Package main is the entry point for the channeletl CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hamgrid/channel-data-etl/internal/config"
	"github.com/hamgrid/channel-data-etl/internal/observability"
	"github.com/hamgrid/channel-data-etl/internal/runner"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "channeletl",
	Short: "Build radio memory-channel and GPS-waypoint exports",
	Long: `channeletl ingests repeater lists, vendor channel files, POTA park and
SOTA summit data, normalizes everything into one canonical record shape,
and writes CSV files the radio's import facility accepts.

Each export is a subcommand: channels writes memory-channel files, gps
writes waypoint files, all runs both.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./channeletl.yaml or ~/.config/channeletl/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("metrics-addr", "", "address for the metrics endpoint, empty disables it")
	rootCmd.PersistentFlags().String("output-dir", "out", "directory the export files are written to")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("metrics_addr", rootCmd.PersistentFlags().Lookup("metrics-addr"))
	viper.BindPFlag("output_dir", rootCmd.PersistentFlags().Lookup("output-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("channeletl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "channeletl"))
		}
	}

	viper.SetEnvPrefix("CHANNEL_ETL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// runExport loads the configuration, builds the runner, and executes one
// export operation with signal-driven cancellation.
func runExport(op func(*runner.Runner, context.Context) error) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := op(runner.New(cfg, logger, metrics), ctx); err != nil {
		logger.Error("export failed", "error", err)
		return err
	}
	logger.Info("export complete", "output_dir", cfg.OutputDir)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
