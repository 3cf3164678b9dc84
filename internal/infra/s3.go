// README: S3 presigner used by the upload module for direct-to-bucket document uploads.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Presigner struct {
	bucket  string
	presign *s3.PresignClient
}

// NewS3Presigner loads credentials from the default AWS chain.
func NewS3Presigner(ctx context.Context, bucket, region string) (*S3Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Presigner{
		bucket:  bucket,
		presign: s3.NewPresignClient(s3.NewFromConfig(cfg)),
	}, nil
}

func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign put %s: %w", key, err)
	}
	return req.URL, nil
}
