// Package main provides the CLI entrypoint for scansplit. It wires
// subcommands (process, detect, calibrate), loads configuration, and
// initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rinehartj/scansplit/internal/config"
	"github.com/rinehartj/scansplit/internal/logging"
)

// main sets up the root Cobra command, loads configuration and logging,
// and registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "scansplit",
		Short: "Splits flatbed scans of multiple photos into individual images",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logging.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logging.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logging.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		processCommand(cfg),
		detectCommand(cfg),
		calibrateCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logging.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
