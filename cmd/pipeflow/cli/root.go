// Package cli is the thin command-line frontend over this module's
// programmatic surface (spec.md §1 names "Any CLI frontend" as an external
// collaborator, out of scope for this repo's own design — so this package
// exposes exactly run/tree/validate/history and nothing more; see
// SPEC_FULL.md §4.11).
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pipeflow",
	Short: "Run and inspect job pipelines described by a pipeline spec file",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
}
