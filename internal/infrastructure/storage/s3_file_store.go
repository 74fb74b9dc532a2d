// Package storage provides object storage for order file attachments.
package storage

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	infraconfig "github.com/zenithstudio/backend/internal/infrastructure/config"
)

const (
	orderKeyPrefix   = "orders/"
	defaultURLExpiry = 15 * time.Minute
	deleteBatchLimit = 1000
)

// S3FileStore keeps order attachments (album spreads, design proofs)
// in an S3-compatible bucket under a per-order prefix, so every file
// an order owns can be listed, archived or deleted by prefix.
type S3FileStore struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	publicURL     string
	logger        *zap.Logger
}

// S3FileStoreOption is a functional option for configuring S3FileStore
type S3FileStoreOption func(*S3FileStore)

// WithLogger sets a custom logger for S3FileStore
func WithLogger(logger *zap.Logger) S3FileStoreOption {
	return func(s *S3FileStore) {
		s.logger = logger
	}
}

// NewS3FileStore creates a file store from configuration.
// It works against AWS S3 or any S3-compatible backend (MinIO etc.)
func NewS3FileStore(cfg *infraconfig.StorageConfig, opts ...S3FileStoreOption) (*S3FileStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "ap-south-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// A custom endpoint means an S3-compatible backend, which
		// usually needs path-style addressing
		if cfg.Endpoint != "" {
			endpoint := cfg.Endpoint
			if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
				endpoint = "https://" + endpoint
			}
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	store := &S3FileStore{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicURL:     strings.TrimSuffix(cfg.PublicURL, "/"),
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// orderKey builds the storage key for a file under an order's prefix.
// The filename is flattened to its base so callers cannot escape the
// order's namespace with path segments.
func orderKey(orderNo, filename string) string {
	return orderKeyPrefix + orderNo + "/" + path.Base(filename)
}

// Upload stores a file under the order's prefix and returns its key
func (s *S3FileStore) Upload(ctx context.Context, orderNo, filename string, body io.Reader, contentType string) (string, error) {
	if orderNo == "" {
		return "", errors.New("order number is required")
	}
	if filename == "" {
		return "", errors.New("filename is required")
	}

	key := orderKey(orderNo, filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return key, nil
}

// ListKeys returns the storage keys of all files under an order's prefix
func (s *S3FileStore) ListKeys(ctx context.Context, orderNo string) ([]string, error) {
	if orderNo == "" {
		return nil, errors.New("order number is required")
	}

	prefix := orderKeyPrefix + orderNo + "/"
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

// Delete removes a single object from storage
func (s *S3FileStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// DeleteAll removes every file under an order's prefix. Used when an
// order is hard deleted.
func (s *S3FileStore) DeleteAll(ctx context.Context, orderNo string) error {
	keys, err := s.ListKeys(ctx, orderNo)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	for start := 0; start < len(keys); start += deleteBatchLimit {
		end := start + deleteBatchLimit
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete objects: %w", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("failed to delete %d objects, first: %s (%s)",
				len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}

	s.logger.Info("Deleted order files",
		zap.String("order_no", orderNo),
		zap.Int("count", len(keys)))
	return nil
}

// DownloadURL generates a presigned GET URL for an object
func (s *S3FileStore) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultURLExpiry
	}

	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}

	return presignReq.URL, time.Now().Add(expiresIn), nil
}

// PublicURL returns the public-facing URL for a key, or the key itself
// when no public base URL is configured.
func (s *S3FileStore) PublicURL(key string) string {
	if s.publicURL == "" {
		return key
	}
	return s.publicURL + "/" + key
}

// ArchiveZip streams every file under an order's prefix into a zip
// archive. Used for the bulk download of an order's uploads.
func (s *S3FileStore) ArchiveZip(ctx context.Context, orderNo string, w io.Writer) error {
	keys, err := s.ListKeys(ctx, orderNo)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return errors.New("order has no files")
	}

	zw := zip.NewWriter(w)
	for _, key := range keys {
		if err := s.addToZip(ctx, zw, key); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func (s *S3FileStore) addToZip(ctx context.Context, zw *zip.Writer, key string) error {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", key, err)
	}
	defer obj.Body.Close()

	entry, err := zw.Create(path.Base(key))
	if err != nil {
		return fmt.Errorf("failed to create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, obj.Body); err != nil {
		return fmt.Errorf("failed to write archive entry: %w", err)
	}
	return nil
}

// GetBucket returns the bucket name
func (s *S3FileStore) GetBucket() string {
	return s.bucket
}
