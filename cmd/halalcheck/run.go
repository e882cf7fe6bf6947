package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"halalcheck/internal/batch"
	"halalcheck/internal/classify"
	"halalcheck/internal/config"
	"halalcheck/internal/dataset"
	"halalcheck/internal/rules"
)

// resolveConfig merges the optional config file, environment overrides, and
// command-line flags. Flags win when set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("input") {
		cfg.Input = inputPath
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputPath
	}
	if cmd.Flags().Changed("rules") {
		cfg.Rules = rulesPath
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runClassify is the root command: load rules, classify the dataset, report,
// and write the labeled output unless dry-run is set. Configuration, schema,
// and I/O errors are fatal before any output is written.
func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Logging.Verbose {
		logLevel.SetLevel(zapcore.DebugLevel)
	}

	ruleset, err := rules.Load(cfg.Rules)
	if err != nil {
		return err
	}
	logger.Debug("ruleset loaded",
		zap.String("path", cfg.Rules),
		zap.Int("haram_keywords", len(ruleset.Rules.HaramContains)),
		zap.Int("review_keywords", len(ruleset.Rules.ReviewContains)),
		zap.Int("halal_keywords", len(ruleset.Rules.HalalContains)),
		zap.Int("overrides", len(ruleset.Overrides.Exact)),
	)

	tbl, err := dataset.ReadFile(cfg.Input)
	if err != nil {
		return err
	}

	engine := classify.NewEngine(ruleset)
	summary, err := batch.Run(cmd.Context(), tbl, engine, batch.Options{
		Overwrite: overwrite,
		Workers:   cfg.Workers,
	}, logger)
	if err != nil {
		return err
	}

	summary.Print(cmd.OutOrStdout())

	if dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "dry-run mode: output file is not written")
		return nil
	}

	if err := tbl.WriteFile(cfg.Output); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", cfg.Output)
	return nil
}
