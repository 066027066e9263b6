package blob

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kit/kit/log"

	gallery "github.com/naszahistoria/gallery"
	"github.com/naszahistoria/gallery/internal/entropy"
)

// NewService returns a new implementation of gallery.BlobStorage.
func NewService(options ...ConfigOption) (gallery.BlobStorage, error) {
	s := service{
		logger:  log.NewNopLogger(),
		entropy: entropy.New(),
	}

	var c config
	for _, opt := range options {
		opt(&s, &c)
	}

	if s.client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(c.region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				c.accessKey,
				c.secretKey,
				"",
			)),
		)
		if err != nil {
			return nil, err
		}

		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if c.endpoint != "" {
				o.BaseEndpoint = aws.String(c.endpoint)
			}
		})
	}

	return &s, nil
}

// config holds S3 connection settings.
type config struct {
	region    string
	endpoint  string
	accessKey string
	secretKey string
}

// ConfigOption configures the service.
type ConfigOption func(*service, *config)

// WithLogger configures the service with a logger.
func WithLogger(l log.Logger) ConfigOption {
	return func(s *service, c *config) {
		s.logger = l
	}
}

// WithBucket configures the destination bucket.
func WithBucket(bucket string) ConfigOption {
	return func(s *service, c *config) {
		s.bucket = bucket
	}
}

// WithPublicBaseURL configures the base URL uploaded objects are
// served from.
func WithPublicBaseURL(baseURL string) ConfigOption {
	return func(s *service, c *config) {
		s.publicBaseURL = baseURL
	}
}

// WithRegion configures the S3 region.
func WithRegion(region string) ConfigOption {
	return func(s *service, c *config) {
		c.region = region
	}
}

// WithEndpoint configures an S3 compatible endpoint.
func WithEndpoint(endpoint string) ConfigOption {
	return func(s *service, c *config) {
		c.endpoint = endpoint
	}
}

// WithCredentials configures static S3 credentials.
func WithCredentials(accessKey, secretKey string) ConfigOption {
	return func(s *service, c *config) {
		c.accessKey = accessKey
		c.secretKey = secretKey
	}
}

// WithClient overrides the underlying S3 client.
func WithClient(client S3API) ConfigOption {
	return func(s *service, c *config) {
		s.client = client
	}
}
