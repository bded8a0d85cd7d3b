// Package storage keeps kit user manuals in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("manual storage is not configured")

const manualContentType = "application/pdf"

// ManualStore stores a product's user manual and returns its public URL.
// body must be rewindable and size its exact length so signed uploads can
// be retried.
type ManualStore interface {
	PutManual(ctx context.Context, productID string, body io.ReadSeeker, size int64) (string, error)
}

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3Store.
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string // MinIO, Ceph RGW and similar
	PathStyle       bool
	AccessKeyID     string // empty uses the default credential chain
	SecretAccessKey string
	PublicBaseURL   string
}

// S3Store writes manuals to a single bucket under manuals/<product id>/.
type S3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Store builds an S3 client from opts.
func NewS3Store(ctx context.Context, opts Options, logger zerolog.Logger) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, ErrDisabled
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = opts.PathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return newS3Store(client, opts, region, logger), nil
}

func newS3Store(client objectAPI, opts Options, region string, logger zerolog.Logger) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: publicBaseURL(opts, region),
		logger:  logger.With().Str("component", "manual-store").Logger(),
	}
}

// publicBaseURL picks the prefix object keys are appended to.
func publicBaseURL(opts Options, region string) string {
	switch {
	case opts.PublicBaseURL != "":
		return strings.TrimRight(opts.PublicBaseURL, "/")
	case opts.Endpoint != "":
		return strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	case opts.PathStyle:
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", region, opts.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, region)
	}
}

// PutManual uploads a PDF under a fresh key.
func (s *S3Store) PutManual(ctx context.Context, productID string, body io.ReadSeeker, size int64) (string, error) {
	key := fmt.Sprintf("manuals/%s/%s.pdf", productID, uuid.New().String())

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(manualContentType),
		Metadata:      map[string]string{"product-id": productID},
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put manual %s: %w", key, err)
	}

	s.logger.Info().Str("product_id", productID).Str("key", key).Msg("stored user manual")
	return s.baseURL + "/" + key, nil
}

// Disabled is the ManualStore used when no bucket is configured.
type Disabled struct{}

func (Disabled) PutManual(context.Context, string, io.ReadSeeker, int64) (string, error) {
	return "", ErrDisabled
}
