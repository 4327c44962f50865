package archive

import (
	"bytes"
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the store needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store uploads finished archives.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Bucket() string
}

type s3Store struct {
	client PutObjectAPI
	bucket string
}

func NewS3Store(client PutObjectAPI, bucket string) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client cannot be nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}
	return &s3Store{client: client, bucket: bucket}, nil
}

func NewS3StoreFromConfig(cfg awssdk.Config, bucket string) (Store, error) {
	return NewS3Store(s3.NewFromConfig(cfg), bucket)
}

func (s *s3Store) Bucket() string {
	return s.bucket
}

func (s *s3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(s.bucket),
		Key:           awssdk.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   awssdk.String(contentType),
		ContentLength: awssdk.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
