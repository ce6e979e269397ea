// Package cli provides the command-line interface for web4r.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dualsubstrate/web4r-go/internal/client"
	"github.com/dualsubstrate/web4r-go/internal/config"
	"github.com/dualsubstrate/web4r-go/internal/metrics"
	"github.com/dualsubstrate/web4r-go/internal/walk"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and wiring
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	collector  *metrics.Collector
	apiClient  *client.Client
	walker     *walk.Resolver
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "web4r",
	Short: "Universal resolver for Web4 coordinates",
	Long: `Web4r is a universal resolver for Web4 coordinates: any system with
ledger access can reconstruct a knowledge tree from a coordinate ID,
without a central platform.

Decode a single coordinate into its normalized knowledge tree, or let the
inference engine walk the knowledge graph from a starting coordinate and
render the traversal as a directed graph.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// No wiring needed for version and help
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose && cfg.LogLevel > slog.LevelDebug {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		collector = metrics.NewCollector()
		apiClient = client.New(client.Config{BaseURL: cfg.APIBase, Timeout: cfg.Timeout}, logger, collector)
		walker = walk.NewResolver(apiClient, logger)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if verbose && collector != nil {
			printStats(collector.Snapshot())
		}
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(loadCmd)
}

// printStats displays this run's API round-trip timings.
func printStats(snap metrics.Snapshot) {
	if snap.Decode == nil && snap.Walk == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "\nAPI timing (this run)\n")
	if snap.Decode != nil {
		printOpStats("decode", snap.Decode)
	}
	if snap.Walk != nil {
		printOpStats("walk", snap.Walk)
	}
}

func printOpStats(name string, op *metrics.OperationSnapshot) {
	fmt.Fprintf(os.Stderr, "  %-7s %d calls, total %dms, avg %.1fms, min %dms, max %dms\n",
		name, op.Count, op.TotalTimeMs, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
