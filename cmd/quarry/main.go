package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quarry-storage/quarry/pkg/config"
	"github.com/quarry-storage/quarry/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Quarry - resource selection engine for replicated block storage",
	Long: `Quarry is the placement brain of a replicated block-storage control
plane: it decides which storage pools receive new replicas, which
replicas become children of a volume target, and which replica or child
to drop when shrinking or repairing a volume.

Decisions run over a cached snapshot of the cluster state, refreshed by
polling the io-engine nodes.`,
	Version:           Version,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Quarry version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the quarry config file")

	rootCmd.AddCommand(planCmd)
}

func setupLogging(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log.Init(log.Config{
		Level:      log.Level(cfg.Log.Level),
		JSONOutput: cfg.Log.JSON,
		Output:     os.Stderr,
	})
	return nil
}
