package cli

import (
	"fmt"

	"github.com/me/wdldoc/internal/publish"
	"github.com/spf13/cobra"
)

func newPublishCmd() *cobra.Command {
	var bucket string
	var prefix string
	var region string
	var dir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a generated site to an S3 bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("bucket") {
				cfg.Publish.Bucket = bucket
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Publish.Prefix = prefix
			}
			if cmd.Flags().Changed("region") {
				cfg.Publish.Region = region
			}
			if cmd.Flags().Changed("dir") {
				cfg.Output = dir
			}
			if dryRun {
				cfg.Publish.DryRun = true
			}
			if cfg.Publish.Bucket == "" {
				return fmt.Errorf("no bucket configured (use --bucket or the config file)")
			}

			pub, err := publish.New(cmd.Context(), cfg.Publish.Region, cfg.Publish.DryRun, logger)
			if err != nil {
				return fmt.Errorf("configure uploader: %w", err)
			}

			n, err := pub.Publish(cmd.Context(), cfg.Output, cfg.Publish.Bucket, cfg.Publish.Prefix)
			if err != nil {
				return err
			}

			verb := "Uploaded"
			if cfg.Publish.DryRun {
				verb = "Would upload"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d files to s3://%s/%s\n", verb, n, cfg.Publish.Bucket, cfg.Publish.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "Target S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from environment)")
	cmd.Flags().StringVar(&dir, "dir", "docs", "Site directory to upload")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List uploads without sending anything")

	return cmd
}
