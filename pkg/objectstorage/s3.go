package objectstorage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nyahub/nya-api/pkg/logger"
	"github.com/nyahub/nya-api/pkg/metrics"
	"go.uber.org/zap"
)

// Client uploads avatar images to an S3-compatible object store.
type Client struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewClient creates an object storage client for the given S3-compatible endpoint.
func NewClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &Client{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// UploadImage uploads a base64-encoded image and returns its public URL.
// The data URI prefix (data:image/png;base64,...) is accepted and stripped.
func (c *Client) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	start := time.Now()

	imageBytes, err := decodeImage(imageData)
	if err != nil {
		metrics.AvatarUploads.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to decode base64 image: %w", err)
	}

	_, err = c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		metrics.AvatarUploads.WithLabelValues("error").Inc()
		logger.Error("Avatar upload failed",
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	metrics.AvatarUploads.WithLabelValues("success").Inc()
	logger.Info("Avatar uploaded",
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)),
		zap.Float64("duration_seconds", metrics.MeasureDuration(start)),
	)

	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucketName, key), nil
}

// ValidateImageType checks the content type against the allowed avatar formats.
func (c *Client) ValidateImageType(contentType string) error {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}

	if !validTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: jpeg, jpg, png, webp", contentType)
	}

	return nil
}

// ValidateImageSize rejects decoded images larger than 10MB.
func (c *Client) ValidateImageSize(imageData string) error {
	const maxSize = 10 * 1024 * 1024

	imageBytes, err := decodeImage(imageData)
	if err != nil {
		return fmt.Errorf("failed to decode image for size validation: %w", err)
	}

	if len(imageBytes) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(imageBytes), maxSize)
	}

	return nil
}

func decodeImage(imageData string) ([]byte, error) {
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI format")
		}
		imageData = parts[1]
	}
	return base64.StdEncoding.DecodeString(imageData)
}
