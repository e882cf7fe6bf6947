// Package main implements the halalcheck CLI: a rule-based halal status
// classifier for material name datasets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"halalcheck/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Run flags
	inputPath  string
	outputPath string
	rulesPath  string
	overwrite  bool
	dryRun     bool
	workers    int

	// Logger
	logger   *zap.Logger
	logLevel zap.AtomicLevel
)

// rootCmd classifies a material dataset against a keyword ruleset.
var rootCmd = &cobra.Command{
	Use:   "halalcheck",
	Short: "Rule-based halal status classifier for material datasets",
	Long: `halalcheck assigns a halal / haram / review status to free-text material
names by matching them against a prioritized keyword ruleset and an
exact-match override table.

Rules live in a JSON file that may contain // and /* */ comments. The
classifier reads a CSV dataset with a material_name column, fills the
halal_status and reason columns for every eligible row, and prints a run
summary. Rows that match no rule deliberately stay unlabeled.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger. The level stays adjustable so the config
		// file's logging.verbose can lift it after flags are resolved.
		logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		if verbose {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = logLevel
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runClassify,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Tool config YAML path (optional)")

	// Classification run flags
	rootCmd.Flags().StringVar(&inputPath, "input", config.DefaultInput, "Input CSV path")
	rootCmd.Flags().StringVar(&outputPath, "output", config.DefaultOutput, "Output CSV path")
	rootCmd.Flags().StringVar(&rulesPath, "rules", config.DefaultRules, "Rules JSON path")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing halal_status values")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without writing the output file")
	rootCmd.Flags().IntVar(&workers, "workers", 1, "Classification worker count")

	rootCmd.AddCommand(checkRulesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
