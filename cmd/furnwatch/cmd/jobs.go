package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func jobsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "jobs",
		Short:   "List recent scrape runs",
		Example: `  furnwatch jobs --limit 10`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListJobRuns(ctx, limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(runs)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			return printJobRunsTable(runs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs")

	return cmd
}
