package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Options configures an S3-compatible bucket (Cloudflare R2 in production).
type R2Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type R2Client struct {
	client  objectPutter
	bucket  string
	baseURL string
}

func NewR2Client(ctx context.Context, opts R2Options) (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				opts.AccessKey,
				opts.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return newR2Client(client, opts.Bucket, opts.PublicBaseURL), nil
}

func newR2Client(client objectPutter, bucket, baseURL string) *R2Client {
	return &R2Client{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores the file under {folder}/{publicID}{ext} and returns its public URL.
func (r *R2Client) Upload(ctx context.Context, path string, kind Kind, publicID string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = defaultExt(kind)
	}
	key := fmt.Sprintf("%s/%s%s", kind.Folder(), publicID, ext)
	contentType := kind.mimeType()

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &r.bucket,
		Key:         &key,
		Body:        bytes.NewReader(raw),
		ContentType: &contentType,
	})
	if err != nil {
		return "", &UploadError{PublicID: publicID, Kind: kind, Err: err}
	}

	return fmt.Sprintf("%s/%s", r.baseURL, key), nil
}

func defaultExt(kind Kind) string {
	if kind == Video {
		return ".mp4"
	}
	return ".jpg"
}
