package objectstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultBucket = "capacity-planner"
	defaultPrefix = "reports"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	prefix          string
	region          string
	accessKey       string
	secretAccessKey string
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		bucket: defaultBucket,
		prefix: defaultPrefix,
		useSSL: true,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

func (c *minioConfig) objectName(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + "/" + name
}

func (c *minioConfig) location(object string) string {
	return fmt.Sprintf("s3://%s/%s", c.bucket, object)
}

// MinioUploader stores rendered reports in an S3 compatible bucket.
type MinioUploader struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMinioUploader(opts ...MinioOpts) (*MinioUploader, error) {
	cfg := newConfig(opts...)

	client, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
		Region: cfg.region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create object store client for %s", cfg.endpoint)
	}

	return &MinioUploader{cfg: cfg, client: client}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.cfg.bucket)
	if err != nil {
		return errors.Wrapf(err, "failed to check bucket %s", m.cfg.bucket)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.cfg.bucket, minio.MakeBucketOptions{Region: m.cfg.region}); err != nil {
		return errors.Wrapf(err, "failed to create bucket %s", m.cfg.bucket)
	}
	zap.S().Named("object_store").Infow("bucket created", "bucket", m.cfg.bucket)
	return nil
}

// Upload puts content under the configured prefix and returns its s3:// location.
func (m *MinioUploader) Upload(ctx context.Context, name string, content []byte, contentType string) (string, error) {
	object := m.cfg.objectName(name)

	info, err := m.client.PutObject(ctx, m.cfg.bucket, object, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s", object)
	}
	if info.Size != int64(len(content)) {
		return "", fmt.Errorf("failed to upload the entire object %s. expected bytes %d stored %d", object, len(content), info.Size)
	}

	zap.S().Named("object_store").Debugw("object uploaded", "bucket", m.cfg.bucket, "object", object, "size", info.Size)
	return m.cfg.location(object), nil
}

func (m *MinioUploader) Type() string {
	return "minio"
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithPrefix(prefix string) MinioOpts {
	return func(c *minioConfig) {
		c.prefix = prefix
	}
}

func WithRegion(region string) MinioOpts {
	return func(c *minioConfig) {
		c.region = region
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
