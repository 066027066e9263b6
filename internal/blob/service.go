// Package blob stores photo images in S3 compatible object storage.
package blob

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kit/kit/log"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// S3API is an interface to the aws-sdk-go-v2 S3 client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// service is an implementation of gallery.BlobStorage.
type service struct {
	logger        log.Logger
	client        S3API
	entropy       ulid.MonotonicReader
	bucket        string
	publicBaseURL string
}

// Upload stores an image under a key derived from its section and a
// fresh ULID, and returns the object's public URL. ULID keys keep
// listings time sortable and never collide with prior uploads.
func (s *service) Upload(ctx context.Context, section, filename, contentType string, body io.Reader) (string, error) {
	key, err := s.objectKey(section, filename)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload blob")
	}

	return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + key, nil
}

func (s *service) objectKey(section, filename string) (string, error) {
	id, err := ulid.New(ulid.Now(), s.entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate blob key")
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpeg"
	}

	return section + "/" + id.String() + ext, nil
}
