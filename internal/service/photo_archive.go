package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/fridgechef/backend/config"
)

// PhotoArchiver stores analyzed photos.
type PhotoArchiver interface {
	Archive(ctx context.Context, jpeg []byte) (string, error)
}

// ObjectPutter is the part of the S3 client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PhotoArchive writes photos to fridge-photos/<uuid>.jpg in a bucket.
type S3PhotoArchive struct {
	client ObjectPutter
	bucket string
}

// NewS3PhotoArchive creates an archive from the S3 config.
func NewS3PhotoArchive(s3Config *config.S3Config) *S3PhotoArchive {
	return &S3PhotoArchive{client: s3Config.Client, bucket: s3Config.BucketName}
}

// NewS3PhotoArchiveWithClient creates an archive around any ObjectPutter.
func NewS3PhotoArchiveWithClient(client ObjectPutter, bucket string) *S3PhotoArchive {
	return &S3PhotoArchive{client: client, bucket: bucket}
}

// Archive uploads the photo and returns its public URL.
func (a *S3PhotoArchive) Archive(ctx context.Context, jpeg []byte) (string, error) {
	fileName := fmt.Sprintf("fridge-photos/%s.jpg", uuid.New().String())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(jpeg),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, fileName), nil
}
