package cli

import (
	"fmt"
	"os"

	"github.com/me/wdldoc/internal/docgen"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "graph <wdl-file>",
		Short: "Print the Mermaid call graph for one workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := docgen.New(cfg, logger).GraphOne(args[0])
			if err != nil {
				return fmt.Errorf("graph %s: %w", args[0], err)
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(src), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", out, err)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), src)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the diagram source to a file instead of stdout")

	return cmd
}
