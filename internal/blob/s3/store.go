// Package s3 uploads local dataset files to an S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/dsxform/internal/config"
)

// Store uploads files into a single bucket and returns their public URL.
type Store struct {
	client    *awss3.Client
	bucket    string
	region    string
	prefix    string
	pathStyle bool
	endpoint  *url.URL
	public    *url.URL
	newKey    func(name string) string
}

// Options carries explicit client settings, mostly for tests.
type Options struct {
	Credentials aws.CredentialsProvider
	HTTPClient  awss3.HTTPClient
}

// New builds a Store from the upload configuration. Credentials come from the
// default AWS chain unless opts supplies a provider.
func New(ctx context.Context, cfg config.UploadConfig, opts Options) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.Credentials != nil {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(opts.Credentials))
	} else if id, secret := os.Getenv("DSXFORM_S3_ACCESS_KEY_ID"), os.Getenv("DSXFORM_S3_SECRET_ACCESS_KEY"); id != "" && secret != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(id, secret, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if opts.HTTPClient != nil {
			o.HTTPClient = opts.HTTPClient
		}
	})

	s := &Store{
		client:    client,
		bucket:    cfg.Bucket,
		region:    region,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		pathStyle: cfg.PathStyle,
		newKey: func(name string) string {
			return uuid.NewString()[:8] + "-" + name
		},
	}
	if cfg.Endpoint != "" {
		if s.endpoint, err = url.Parse(cfg.Endpoint); err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
	}
	if cfg.PublicBaseURL != "" {
		if s.public, err = url.Parse(strings.TrimRight(cfg.PublicBaseURL, "/")); err != nil {
			return nil, fmt.Errorf("parse public base url: %w", err)
		}
	}
	return s, nil
}

// Upload stores the file at localPath and returns the URL it is reachable at.
func (s *Store) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	name := filepath.Base(localPath)
	key := s.newKey(name)
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}

	input := &awss3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key), Body: f}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("upload %s: %w", localPath, err)
	}
	return s.objectURL(key), nil
}

func (s *Store) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	switch {
	case s.public != nil:
		return s.public.String() + "/" + escaped
	case s.endpoint != nil && s.pathStyle:
		return strings.TrimRight(s.endpoint.String(), "/") + "/" + s.bucket + "/" + escaped
	case s.endpoint != nil:
		return fmt.Sprintf("%s://%s.%s/%s", s.endpoint.Scheme, s.bucket, s.endpoint.Host, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
	}
}
