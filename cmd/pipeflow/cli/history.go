package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pipeflow/pipeflow/history"
)

var historyQuery string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded pipeline runs",
}

var historyShowCmd = &cobra.Command{
	Use:   "show <db> <run-id>",
	Short: "Print a recorded run, or the result of a gjson query against it",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		dbPath, runID := args[0], args[1]

		store, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if historyQuery != "" {
			raw, err := store.Query(runID, historyQuery)
			if err != nil {
				return err
			}
			fmt.Println(raw)
			return nil
		}

		run, err := store.Get(runID)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("no such run: %s", runID)
		}

		fmt.Printf("run %s recorded at %s\n", run.ID, run.RecordedAt)
		for _, j := range run.Jobs {
			fmt.Printf("  %-20s %-10s %s\n", j.Name, j.Status, j.Message)
		}
		return nil
	},
}

func init() {
	historyShowCmd.Flags().StringVar(&historyQuery, "query", "", `gjson path expression, e.g. #(status=="Failed").name`)
	historyCmd.AddCommand(historyShowCmd)
}
