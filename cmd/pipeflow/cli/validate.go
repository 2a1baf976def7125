package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pipeflow/pipeflow/pipelinespec"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse and build a pipeline spec without running it, reporting any error",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := args[0]
		spec, err := pipelinespec.ParseFile(path)
		if err != nil {
			return err
		}

		p, err := pipelinespec.Build(spec, filepath.Dir(path))
		if err != nil {
			return err
		}

		fmt.Printf("ok: %d job(s)\n", len(p.GetJobStatuses()))
		return nil
	},
}
