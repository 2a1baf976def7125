package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pipeflow/pipeflow/pipeline"
	"github.com/pipeflow/pipeflow/pipelinespec"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the dependants view of a pipeline spec without running it",
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

		printTree(pipeline.NewTree(p), 0)
		return nil
	},
}

func printTree(t *pipeline.Tree, depth int) {
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), t.Name)
	for _, child := range t.Children {
		printTree(child, depth+1)
	}
}
