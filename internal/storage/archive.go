// Package storage keeps a copy of processed import files outside the local
// uploads dir. The archive is best effort; callers log and move on.
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver stores a local file under an object name derived from name.
type Archiver interface {
	Archive(ctx context.Context, localPath, name string) (string, error)
}

// NopArchiver is used when no object store is configured.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, string, string) (string, error) { return "", nil }

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether enough settings are present to build a client.
func (c MinioConfig) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != "" && strings.TrimSpace(c.Bucket) != ""
}

type MinioArchiver struct {
	Client *minio.Client
	Bucket string
	Now    func() time.Time
}

// NewMinioArchiver connects and makes sure the bucket exists.
func NewMinioArchiver(ctx context.Context, cfg MinioConfig) (*MinioArchiver, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: make bucket: %w", err)
		}
	}
	return &MinioArchiver{Client: client, Bucket: cfg.Bucket}, nil
}

func (a *MinioArchiver) Archive(ctx context.Context, localPath, name string) (string, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	key := ObjectKey(now(), name)
	_, err := a.Client.FPutObject(ctx, a.Bucket, key, localPath, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey is imports/<YYYY-MM-DD>/<base name>.
func ObjectKey(at time.Time, name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload.csv"
	}
	return path.Join("imports", at.UTC().Format("2006-01-02"), base)
}
