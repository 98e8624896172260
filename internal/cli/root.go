package cli

import (
	"log/slog"

	"github.com/me/wdldoc/internal/config"
	"github.com/me/wdldoc/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
	cfg    config.Config
)

// NewRootCmd creates the root cobra command for the wdldoc CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wdldoc",
		Short: "wdldoc — documentation generator for WDL repositories",
		Long: "wdldoc scans a repository of WDL workflows and renders browsable HTML\n" +
			"documentation: per-document pages, Mermaid call graphs, a docker image\n" +
			"inventory, and a cross-document subworkflow usage index.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = flagLogLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = flagLogFormat
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to wdldoc config file (YAML)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newGenerateCmd(),
		newGraphCmd(),
		newServeCmd(),
		newPublishCmd(),
		newStatsCmd(),
		newVersionCmd(),
	)

	return root
}
