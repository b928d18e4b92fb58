package blobstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicURL is the base clients use to reach the bucket. Endpoint is
	// used when it is empty.
	PublicURL string
}

// S3Store uploads media to an S3-compatible bucket (MinIO in development)
// using path-style addressing.
type S3Store struct {
	client *s3.Client
	bucket string
	public string
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = true
	})

	public := c.PublicURL
	if public == "" {
		public = c.Endpoint
	}

	return &S3Store{client: client, bucket: c.Bucket, public: public}, nil
}

func (s *S3Store) Upload(ctx context.Context, dataURI, logicalID, prefix string) (string, string, error) {
	d, key, err := decode(dataURI, logicalID, prefix)
	if err != nil {
		return "", "", err
	}

	_, err = putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(d.Data),
		ContentType:   aws.String(d.MIMEType),
		ContentLength: aws.Int64(int64(len(d.Data))),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object %s: %w", key, err)
	}

	return key, joinURL(s.public, s.bucket, key), nil
}
