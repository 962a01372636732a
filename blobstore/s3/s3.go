// Package s3 implements blobstore.Store on Amazon S3. Uploads stream
// through the SDK's multipart manager, so sealed segments never have to be
// buffered whole in memory.
package s3

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/logseg/blobstore"
)

// Client is the subset of the S3 API the store uses. It matches
// *s3.Client and keeps tests free of the real SDK client.
type Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type storeOptions struct {
	partSize    int64
	concurrency int
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

// WithPartSize sets the multipart upload part size in bytes.
func WithPartSize(n int64) StoreOption {
	return func(o *storeOptions) {
		o.partSize = n
	}
}

// WithConcurrency sets the number of concurrent part uploads.
func WithConcurrency(n int) StoreOption {
	return func(o *storeOptions) {
		o.concurrency = n
	}
}

// Store implements blobstore.Store on an S3 bucket. All keys live under
// rootPrefix.
type Store struct {
	client   Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewStore creates a store over an existing S3 client.
func NewStore(client Client, bucket, rootPrefix string, optFns ...StoreOption) *Store {
	opts := storeOptions{
		// Larger than the SDK default: sealed segments tend to be tens
		// of megabytes.
		partSize:    8 * 1024 * 1024,
		concurrency: 5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = opts.partSize
			u.Concurrency = opts.concurrency
		}),
		bucket: bucket,
		prefix: rootPrefix,
	}
}

// NewStoreFromEnv builds the S3 client from the default AWS credential
// chain.
func NewStoreFromEnv(ctx context.Context, bucket, rootPrefix string, optFns ...StoreOption) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(s3.NewFromConfig(cfg), bucket, rootPrefix, optFns...), nil
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
		Body:   r,
	})
	return err
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	return err
}

func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, s.trim(aws.ToString(obj.Key)))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) trim(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, s.prefix), "/")
}

var _ blobstore.Store = (*Store)(nil)
