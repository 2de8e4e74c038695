package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsai/config"
	"newsai/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ObjectGetter is the slice of the S3 API the fetcher needs
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ErrBucketNotAllowed is returned for buckets outside the configured allowlist
var ErrBucketNotAllowed = errors.New("bucket is not allowed")

// S3Fetcher reads s3://bucket/key objects as raw documents
type S3Fetcher struct {
	client  ObjectGetter
	maxBody int64
	// allowed is nil when every bucket may be read
	allowed map[string]bool
}

// NewS3Fetcher builds an S3 client from the default AWS configuration chain,
// with optional overrides from cfg.
func NewS3Fetcher(ctx context.Context, cfg config.S3Config) (*S3Fetcher, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3FetcherWithClient(c).AllowBuckets(cfg.AllowedBuckets...), nil
}

// NewS3FetcherWithClient wraps an existing client
func NewS3FetcherWithClient(client ObjectGetter) *S3Fetcher {
	return &S3Fetcher{client: client, maxBody: config.MaxBodyBytes}
}

// AllowBuckets restricts the fetcher to the named buckets. No names means no restriction.
func (f *S3Fetcher) AllowBuckets(buckets ...string) *S3Fetcher {
	if len(buckets) == 0 {
		f.allowed = nil
		return f
	}
	f.allowed = make(map[string]bool, len(buckets))
	for _, b := range buckets {
		f.allowed[b] = true
	}
	return f
}

// ParseS3URL splits s3://bucket/key
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 url: %q", raw)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs bucket and key: %q", raw)
	}
	return bucket, key, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, rawURL string) (types.RawDocument, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return types.RawDocument{}, &FetchError{URL: rawURL, Err: err}
	}
	if f.allowed != nil && !f.allowed[bucket] {
		return types.RawDocument{}, &FetchError{URL: rawURL, StatusCode: http.StatusForbidden, Err: ErrBucketNotAllowed}
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return types.RawDocument{}, &FetchError{URL: rawURL, StatusCode: s3StatusCode(err), Err: err}
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, f.maxBody))
	if err != nil {
		return types.RawDocument{}, &FetchError{URL: rawURL, Err: fmt.Errorf("read object: %w", err)}
	}

	return types.RawDocument{
		URL:         rawURL,
		Body:        string(body),
		ContentType: aws.ToString(out.ContentType),
		FetchedAt:   time.Now(),
	}, nil
}

// s3StatusCode maps SDK errors to an HTTP status, or 0 when none applies
func s3StatusCode(err error) int {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return http.StatusNotFound
		case "AccessDenied":
			return http.StatusForbidden
		}
	}
	return 0
}
