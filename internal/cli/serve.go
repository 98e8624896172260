package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/wdldoc/internal/site"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	var dir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a generated documentation site for local preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if cmd.Flags().Changed("dir") {
				cfg.Output = dir
			}
			if _, err := os.Stat(cfg.Output); err != nil {
				return fmt.Errorf("site directory %s: %w (run wdldoc generate first)", cfg.Output, err)
			}

			httpServer := &http.Server{
				Addr:    cfg.Serve.Addr,
				Handler: site.New(cfg.Output, logger),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				logger.Info("preview server starting", "addr", cfg.Serve.Addr, "dir", cfg.Output)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("preview server failed", "error", err)
					os.Exit(1)
				}
			}()

			<-ctx.Done()
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dir, "dir", "docs", "Site directory to serve")

	return cmd
}
