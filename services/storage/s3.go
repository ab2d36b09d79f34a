package storage

import (
	"context"
	"fmt"
	"io"

	"havenly/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3StorageService implements StorageService using an S3 bucket.
type S3StorageService struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3StorageService loads AWS credentials from the default chain.
func NewS3StorageService(ctx context.Context, region, bucket string) (*S3StorageService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &S3StorageService{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

func (s *S3StorageService) Upload(ctx context.Context, file io.Reader, filename, contentType string) (models.Image, error) {
	key := "properties/" + objectName(filename) + extension(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("s3: failed to upload file: %w", err)
	}
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	return models.Image{URL: url, PublicID: key}, nil
}

func (s *S3StorageService) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("s3: failed to delete %s: %w", publicID, err)
	}
	return nil
}
