package cli

import (
	"fmt"

	"github.com/me/wdldoc/internal/docgen"
	"github.com/me/wdldoc/internal/store"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var root string
	var out string
	var siteName string
	var dbPath string
	var noIndex bool
	var exclude []string
	var externalDirs []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documentation for a WDL repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("root") {
				cfg.Root = root
			}
			if cmd.Flags().Changed("out") {
				cfg.Output = out
			}
			if cmd.Flags().Changed("site-name") {
				cfg.SiteName = siteName
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("exclude") {
				cfg.Exclude = exclude
			}
			if cmd.Flags().Changed("external-dir") {
				cfg.ExternalDirs = externalDirs
			}

			gen := docgen.New(cfg, logger)
			if !noIndex && cfg.DBPath != "" {
				st, err := store.NewSQLiteStore(cfg.DBPath, logger)
				if err != nil {
					return fmt.Errorf("open index database: %w", err)
				}
				defer st.Close()
				if err := st.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate index database: %w", err)
				}
				gen = gen.WithIndex(st)
			}

			result, err := gen.Generate(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Documented %d files into %s\n", len(result.Documents), cfg.Output)
			if len(result.Errors) > 0 {
				fmt.Fprintf(w, "%d files failed to parse:\n", len(result.Errors))
				for _, perr := range result.Errors {
					fmt.Fprintf(w, "  %s\n", perr.Error())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Repository root to scan")
	cmd.Flags().StringVar(&out, "out", "docs", "Output directory for the rendered site")
	cmd.Flags().StringVar(&siteName, "site-name", "", "Site title shown in the navigation bar")
	cmd.Flags().StringVar(&dbPath, "db", "", "Run index database path (empty uses the config value)")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "Skip recording the run in the index database")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Directory names to skip during discovery")
	cmd.Flags().StringSliceVar(&externalDirs, "external-dir", nil, "Directory names holding third-party workflows")

	return cmd
}
