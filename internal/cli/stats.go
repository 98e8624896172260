package cli

import (
	"fmt"

	"github.com/me/wdldoc/internal/store"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the most recent documentation run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}

			st, err := store.NewSQLiteStore(cfg.DBPath, logger)
			if err != nil {
				return fmt.Errorf("open index database: %w", err)
			}
			defer st.Close()
			if err := st.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate index database: %w", err)
			}

			run, err := st.LatestRun(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if run == nil {
				fmt.Fprintln(w, "No runs recorded.")
				return nil
			}

			fmt.Fprintf(w, "Run %s\n", run.ID)
			fmt.Fprintf(w, "  root:      %s\n", run.Root)
			fmt.Fprintf(w, "  output:    %s\n", run.OutputDir)
			fmt.Fprintf(w, "  created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(w, "  documents: %d  workflows: %d  tasks: %d  errors: %d\n",
				run.Documents, run.Workflows, run.Tasks, run.Errors)

			docs, err := st.ListDocuments(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return nil
			}

			fmt.Fprintf(w, "\n%-40s  %-10s  %6s  %6s  %7s\n", "DOCUMENT", "TYPE", "TASKS", "CALLS", "CALLERS")
			for _, doc := range docs {
				name := doc.RelativePath
				if doc.External {
					name += " (external)"
				}
				fmt.Fprintf(w, "%-40s  %-10s  %6d  %6d  %7d\n",
					name, doc.DocType, doc.TaskCount, doc.CallCount, doc.CallerCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Run index database path (empty uses the config value)")

	return cmd
}
