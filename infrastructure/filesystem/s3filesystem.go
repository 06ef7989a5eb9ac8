package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const scheme = "s3://"

type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, bucket string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func URL(bucket string, key string) string {
	return scheme + bucket + "/" + key
}

// ParseURL splits s3://bucket/key.
func ParseURL(url string) (bucket string, key string, ok bool) {
	if !strings.HasPrefix(url, scheme) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(url, scheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// Put uploads body and returns its s3:// location.
func (s *S3Store) Put(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s in bucket %s: %w", key, s.bucket, err)
	}
	return URL(s.bucket, key), nil
}

func (s *S3Store) Read(ctx context.Context, location string, outStream io.Writer) error {
	bucket, key, ok := ParseURL(location)
	if !ok {
		return fmt.Errorf("not an s3 location: %s", location)
	}

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(outStream, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, location string) error {
	bucket, key, ok := ParseURL(location)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}
