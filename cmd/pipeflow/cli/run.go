package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pipeflow/pipeflow/history"
	"github.com/pipeflow/pipeflow/job"
	"github.com/pipeflow/pipeflow/pipeline"
	"github.com/pipeflow/pipeflow/pipelinespec"
	"github.com/pipeflow/pipeflow/progress"
)

var (
	runHistoryPath string
	runVerbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run the pipeline described by a spec file to quiescence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		spec, err := pipelinespec.ParseFile(path)
		if err != nil {
			return err
		}

		var opts []pipeline.Option
		if runVerbose {
			opts = append(opts, pipeline.WithReporter(progress.NewLog(nil)))
		}

		p, err := pipelinespec.Build(spec, filepath.Dir(path), opts...)
		if err != nil {
			return err
		}

		if err := p.Execute(cmd.Context()); err != nil {
			return err
		}

		statuses := p.GetJobStatuses()
		for _, status := range statuses {
			fmt.Printf("%-20s %s\n", status.Name, status.Status.Phase)
		}

		if runHistoryPath != "" {
			store, err := history.Open(runHistoryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runID := job.NewID().String()
			if err := store.Record(runID, statuses); err != nil {
				return err
			}
			fmt.Println("recorded run:", runID)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runHistoryPath, "history", "", "path to a SQLite history database to record this run in")
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "log job and iteration events as the pipeline runs")
}
