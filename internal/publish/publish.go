// Package publish uploads a generated site to an S3 bucket so it can be
// served from static hosting.
package publish

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// uploaderAPI is the slice of the S3 upload manager the publisher needs.
type uploaderAPI interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Publisher uploads site files to S3.
type Publisher struct {
	uploader uploaderAPI
	logger   *slog.Logger
	dryRun   bool
}

// New creates a Publisher using the ambient AWS credential chain.
func New(ctx context.Context, region string, dryRun bool, logger *slog.Logger) (*Publisher, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return newWithUploader(manager.NewUploader(client), dryRun, logger), nil
}

func newWithUploader(up uploaderAPI, dryRun bool, logger *slog.Logger) *Publisher {
	return &Publisher{
		uploader: up,
		logger:   logger.With("component", "publish"),
		dryRun:   dryRun,
	}
}

// Publish uploads every file under dir to bucket beneath prefix, returning
// the number of files uploaded. In dry-run mode nothing is sent; files are
// only counted and logged.
func (p *Publisher) Publish(ctx context.Context, dir, bucket, prefix string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.ToSlash(rel))

		if p.dryRun {
			p.logger.Info("would upload", "key", key, "bucket", bucket)
			uploaded++
			return nil
		}
		if err := p.uploadFile(ctx, file, bucket, key); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	p.logger.Info("site published", "bucket", bucket, "prefix", prefix, "files", uploaded, "dry_run", p.dryRun)
	return uploaded, nil
}

func (p *Publisher) uploadFile(ctx context.Context, file, bucket, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = p.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(key)),
	})
	return err
}

func contentType(key string) string {
	ext := strings.ToLower(path.Ext(key))
	switch ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".wdl":
		return "text/plain; charset=utf-8"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
