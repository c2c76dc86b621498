package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dcode-github/rishstay/models"
)

const s3Prefix = "properties/"

type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 loads AWS credentials from the default chain. baseURL, when set,
// replaces the bucket's virtual-hosted URL (for a CDN in front of it).
func NewS3(ctx context.Context, bucket, baseURL string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 image store: bucket name is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewS3WithClient(s3.NewFromConfig(cfg), bucket, baseURL), nil
}

// NewS3WithClient uses an already configured client, for S3-compatible
// endpoints such as MinIO.
func NewS3WithClient(client *s3.Client, bucket, baseURL string) *S3 {
	return &S3{client: client, bucket: bucket, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *S3) url(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

func (s *S3) Upload(ctx context.Context, u Upload) (models.Image, error) {
	key := s3Prefix + objectName(u.Filename, u.ContentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(u.ContentType),
		ContentLength: aws.Int64(u.Size),
		Body:          u.Body,
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("put object %s: %w", key, err)
	}
	return models.Image{URL: s.url(key), PublicID: key}, nil
}

func (s *S3) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", publicID, err)
	}
	return nil
}
