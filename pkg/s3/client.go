package s3

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"teamboard-api/pkg/config"
)

// Client wraps the S3 operations used for user avatars
type Client struct {
	s3Client     s3iface.S3API
	bucketName   string
	avatarPrefix string
	presignTTL   time.Duration
}

// NewClient initializes a new S3 client
func NewClient(cfg *config.S3Config) (*Client, error) {
	s3Client, err := NewS3Connection(cfg)
	if err != nil {
		return nil, err
	}

	return NewClientWithAPI(s3Client, cfg), nil
}

// NewClientWithAPI builds a Client around an existing S3 API implementation
func NewClientWithAPI(api s3iface.S3API, cfg *config.S3Config) *Client {
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Client{
		s3Client:     api,
		bucketName:   cfg.BucketName,
		avatarPrefix: cfg.AvatarPrefix,
		presignTTL:   ttl,
	}
}

// AvatarKey builds a fresh object key for a user's avatar
func (c *Client) AvatarKey(userID, extension string) string {
	name := uuid.NewString()
	if extension != "" {
		name = name + "." + extension
	}
	return path.Join(c.avatarPrefix, userID, name)
}

// PutAvatar uploads an avatar image and returns its object key
func (c *Client) PutAvatar(ctx context.Context, userID, extension, contentType string, body io.ReadSeeker) (string, error) {
	key := c.AvatarKey(userID, extension)

	_, err := c.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucketName),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("private, max-age=86400"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return key, nil
}

// GetDownloadPresignedURL generates a presigned URL for downloading an object
func (c *Client) GetDownloadPresignedURL(key string) (string, time.Time, error) {
	req, _ := c.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})

	url, err := req.Presign(c.presignTTL)
	if err != nil {
		return "", time.Time{}, err
	}

	return url, time.Now().Add(c.presignTTL), nil
}

// DeleteObject deletes an object from S3
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	return err
}

// Ping checks that the bucket is reachable
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.s3Client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucketName),
	})
	return err
}
