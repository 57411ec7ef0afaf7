package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/klauspost/compress/s2"
	"github.com/litebase/pagedb/internal/utils"
	"github.com/litebase/pagedb/pkg/config"
)

const defaultStorageRegion = "us-east-1"

// ObjectPageStore keeps pages as s2 compressed objects in an S3 compatible
// bucket. The page count is persisted in a metadata object under the same
// prefix.
type ObjectPageStore struct {
	bucket   string
	buffers  *sync.Pool
	context  context.Context
	count    uint32
	mutex    *sync.Mutex
	pageSize int64
	prefix   string
	S3Client *s3.Client
}

// Create an S3 client from the storage settings of the configuration. When an
// endpoint is configured, path style addressing is used so that S3 compatible
// servers without bucket subdomains work.
func NewS3Client(ctx context.Context, c *config.Config) (*s3.Client, error) {
	region := c.StorageRegion

	if region == "" {
		region = defaultStorageRegion
	}

	options := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(region),
	}

	if c.StorageAccessKeyId != "" {
		options = append(options, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				c.StorageAccessKeyId,
				c.StorageSecretAccessKey,
				"",
			),
		))
	}

	sdkConfig, err := awsConfig.LoadDefaultConfig(ctx, options...)

	if err != nil {
		slog.Error("Error loading object storage configuration", "error", err)
		return nil, err
	}

	return s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if c.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(c.StorageEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewObjectPageStore(ctx context.Context, client *s3.Client, bucket, prefix string, pageSize int64) (*ObjectPageStore, error) {
	s := &ObjectPageStore{
		bucket: bucket,
		buffers: &sync.Pool{
			New: func() any {
				return make([]byte, s2.MaxEncodedLen(int(pageSize)))
			},
		},
		context:  ctx,
		mutex:    &sync.Mutex{},
		pageSize: pageSize,
		prefix:   prefix,
		S3Client: client,
	}

	err := s.loadMetadata()

	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *ObjectPageStore) DeletePage(index uint32) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.S3Client.DeleteObject(s.context, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.PageKey(index)),
	})

	if err != nil && !isNotFound(err) {
		slog.Error("Error deleting page object", "index", index, "error", err)
		return err
	}

	if s.count > 0 && index == s.count-1 {
		return s.saveMetadata(index)
	}

	return nil
}

// Create the bucket when it does not exist yet.
func (s *ObjectPageStore) EnsureBucketExists() error {
	_, err := s.S3Client.HeadBucket(s.context, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})

	if err == nil {
		return nil
	}

	_, err = s.S3Client.CreateBucket(s.context, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})

	if err != nil {
		slog.Error("Error creating bucket", "bucket", s.bucket, "error", err)
		return err
	}

	return nil
}

func (s *ObjectPageStore) GetPage(index uint32) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if index >= s.count {
		return nil, fmt.Errorf("%w: %d", ErrPageNotFound, index)
	}

	body, found, err := s.readObject(s.PageKey(index))

	if err != nil {
		return nil, err
	}

	if !found {
		return make([]byte, s.pageSize), nil
	}

	data, err := s2.Decode(nil, body)

	if err != nil {
		slog.Error("Error decompressing page", "index", index, "error", err, "size", len(body))
		return nil, err
	}

	return data, nil
}

func isNotFound(err error) bool {
	var noKey *s3types.NoSuchKey
	var notFound *s3types.NotFound

	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}

func (s *ObjectPageStore) loadMetadata() error {
	body, found, err := s.readObject(s.MetadataKey())

	if err != nil {
		return err
	}

	if !found {
		s.count = 0
		return nil
	}

	if len(body) < 8 {
		return errors.New("page store metadata is truncated")
	}

	count, err := utils.SafeUint64ToUint32(binary.LittleEndian.Uint64(body))

	if err != nil {
		slog.Error("Error decoding page store metadata", "error", err)
		return err
	}

	s.count = count

	return nil
}

func (s *ObjectPageStore) MetadataKey() string {
	return path.Join(s.prefix, "_METADATA")
}

func (s *ObjectPageStore) PageCount() (uint32, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.count, nil
}

func (s *ObjectPageStore) PageKey(index uint32) string {
	return path.Join(s.prefix, "pages", fmt.Sprintf("%010d", index))
}

func (s *ObjectPageStore) PageSize() int64 {
	return s.pageSize
}

func (s *ObjectPageStore) PutPage(index uint32, data []byte) error {
	if int64(len(data)) != s.pageSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPageSize, s.pageSize, len(data))
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	buffer := s.buffers.Get().([]byte)
	defer s.buffers.Put(buffer)

	compressed := s2.Encode(buffer, data)

	err := s.writeObject(s.PageKey(index), compressed)

	if err != nil {
		slog.Error("Error writing page object", "index", index, "error", err)
		return err
	}

	if index >= s.count {
		return s.saveMetadata(index + 1)
	}

	return nil
}

func (s *ObjectPageStore) readObject(key string) ([]byte, bool, error) {
	output, err := s.S3Client.GetObject(s.context, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}

		slog.Error("Error reading object", "key", key, "error", err)

		return nil, false, err
	}

	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)

	if err != nil {
		slog.Error("Error reading object body", "key", key, "error", err)
		return nil, false, err
	}

	return body, true, nil
}

func (s *ObjectPageStore) saveMetadata(count uint32) error {
	data := make([]byte, 8)

	binary.LittleEndian.PutUint64(data, uint64(count))

	err := s.writeObject(s.MetadataKey(), data)

	if err != nil {
		slog.Error("Error writing page store metadata", "error", err)
		return err
	}

	s.count = count

	return nil
}

func (s *ObjectPageStore) writeObject(key string, data []byte) error {
	_, err := s.S3Client.PutObject(s.context, &s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Bucket:      aws.String(s.bucket),
		ContentType: aws.String("application/octet-stream"),
		Key:         aws.String(key),
	})

	return err
}
