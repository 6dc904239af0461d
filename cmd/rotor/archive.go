package main

import (
	"fmt"

	"github.com/quantlab/rotor/internal/archive"
	"github.com/quantlab/rotor/internal/config"
)

// newArchiveStorage builds the configured cold-storage backend.
func newArchiveStorage(cfg *config.Config) (archive.Storage, error) {
	switch cfg.Archive.Type {
	case "", "localfs":
		return archive.NewLocalFS(cfg.Archive.Path)
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Archive.Type)
	}
}
