package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3 is the s3:// backend for publishing batch outputs to a bucket.
type S3 struct {
	client *s3.Client
}

// NewS3 creates an S3 backend using the default AWS credentials chain.
func NewS3(ctx context.Context) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3{client: s3.NewFromConfig(cfg)}, nil
}

// NewS3WithClient creates an S3 backend with a preconfigured client.
func NewS3WithClient(client *s3.Client) *S3 {
	return &S3{client: client}
}

// splitS3URI splits s3://bucket/key into bucket and key.
func splitS3URI(uri string) (bucket, key string, err error) {
	path, err := requireScheme(uri, "s3")
	if err != nil {
		return "", "", err
	}

	bucket, key, _ = strings.Cut(path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("S3 URI %q has no bucket", uri)
	}
	if key == "" {
		return "", "", fmt.Errorf("S3 URI %q has no object key", uri)
	}
	return bucket, key, nil
}

func (s *S3) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

func (s *S3) Put(ctx context.Context, uri string, data io.Reader) error {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   data,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3) Delete(ctx context.Context, uri string) error {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3) Exists(ctx context.Context, uri string) (bool, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return false, err
	}

	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// isS3NotFound matches the ways the SDK reports a missing object: a NotFound
// error code or a bare 404 on HeadObject.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey" {
		return true
	}
	if httpErr, ok := apiErr.(interface{ HTTPStatusCode() int }); ok {
		return httpErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}
