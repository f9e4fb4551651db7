package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Mirror uploads the persisted reconciliation artifacts to object storage
// after each successful commit. It is a backup of record, not part of the
// commit: failures are reported and the local files stay authoritative.
type Mirror struct {
	client Client
	bucket string
	prefix string
	paths  []string
	log    *zap.Logger
}

// NewMirror creates a mirror for the given local artifact paths.
func NewMirror(client Client, cfg Config, paths []string, log *zap.Logger) *Mirror {
	return &Mirror{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		paths:  paths,
		log:    log,
	}
}

// EnsureBucket creates the target bucket if it does not exist yet.
func (m *Mirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.bucket, err)
	}
	m.log.Info("Created mirror bucket", zap.String("bucket", m.bucket))
	return nil
}

// Upload copies every configured artifact into the bucket under the prefix.
// The object name is the file's base name, so each commit overwrites the
// previous copy.
func (m *Mirror) Upload(ctx context.Context) error {
	for _, p := range m.paths {
		if err := m.uploadOne(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mirror) uploadOne(ctx context.Context, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	objectName := path.Join(m.prefix, filepath.Base(localPath))
	contentType := "application/json"
	if filepath.Ext(localPath) == ".csv" {
		contentType = "text/csv"
	}

	_, err = m.client.PutObject(ctx, m.bucket, objectName, f, info.Size(),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectName, err)
	}

	m.log.Debug("Mirrored artifact",
		zap.String("object", objectName),
		zap.Int64("bytes", info.Size()),
	)
	return nil
}
