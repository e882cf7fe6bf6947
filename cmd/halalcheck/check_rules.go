package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"halalcheck/internal/rules"
)

// =============================================================================
// CHECK-RULES COMMAND - Ruleset file validation
// =============================================================================

var checkRulesCmd = &cobra.Command{
	Use:   "check-rules [file...]",
	Short: "Check rules files without running a classification",
	Long: `Strips comments, parses, and validates rules JSON files. Reports every
configuration problem a classification run would abort on: invalid JSON,
missing status_labels or rules keys, and status keys that status_labels
does not define.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheckRules,
}

func runCheckRules(cmd *cobra.Command, args []string) error {
	hasError := false

	for _, pattern := range args {
		// Handle glob expansion (if shell didn't already)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("Error processing pattern %s: %v\n", pattern, err)
			hasError = true
			continue
		}

		if len(matches) == 0 {
			// Glob returns nil without error when nothing matched; the
			// argument may still name a specific file.
			if _, err := os.Stat(pattern); err == nil {
				matches = []string{pattern}
			} else {
				fmt.Printf("No files found matching: %s\n", pattern)
				continue
			}
		}

		for _, file := range matches {
			if _, err := rules.Load(file); err != nil {
				fmt.Printf("ERROR in %s: %v\n", file, err)
				hasError = true
			} else {
				fmt.Printf("OK: %s\n", file)
			}
		}
	}

	if hasError {
		os.Exit(1)
	}
	return nil
}
