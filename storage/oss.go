package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/eureka-framework/component-media/errors"
)

// OSSProvider stores objects in an Aliyun OSS bucket
type OSSProvider struct {
	client     *oss.Client
	bucket     *oss.Bucket
	bucketName string
	domain     string // custom or CDN domain
}

// OSSOptions configures the OSS provider.
type OSSOptions struct {
	Endpoint        string // e.g. oss-cn-hangzhou.aliyuncs.com
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Domain          string // optional custom domain
}

// NewOSSProvider creates an OSS-backed provider.
func NewOSSProvider(opts OSSOptions) (*OSSProvider, error) {
	const op = "storage.NewOSSProvider"

	client, err := oss.New(opts.Endpoint, opts.AccessKeyID, opts.AccessKeySecret)
	if err != nil {
		return nil, errors.NewIO("creating OSS client", err).WithOp(op)
	}

	bucket, err := client.Bucket(opts.Bucket)
	if err != nil {
		return nil, errors.NewIO(fmt.Sprintf("getting bucket %s", opts.Bucket), err).WithOp(op)
	}

	domain := opts.Domain
	if domain == "" {
		domain = fmt.Sprintf("https://%s.%s", opts.Bucket, opts.Endpoint)
	} else if !strings.HasPrefix(domain, "http") {
		domain = "https://" + domain
	}

	return &OSSProvider{
		client:     client,
		bucket:     bucket,
		bucketName: opts.Bucket,
		domain:     domain,
	}, nil
}

func (p *OSSProvider) Name() string { return "oss" }

// Put uploads the content under the key
func (p *OSSProvider) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	objectKey := strings.TrimPrefix(key, "/")
	if err := p.bucket.PutObject(objectKey, r); err != nil {
		return "", errors.NewIO("uploading to OSS", err).WithOp("storage.OSSProvider.Put").WithPath(objectKey)
	}
	return p.URL(key), nil
}

// Exists checks the key against the bucket
func (p *OSSProvider) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := p.bucket.IsObjectExist(strings.TrimPrefix(key, "/"))
	if err != nil {
		return false, errors.NewIO("checking OSS object", err).WithPath(key)
	}
	return exists, nil
}

// Delete removes the key from the bucket
func (p *OSSProvider) Delete(ctx context.Context, key string) error {
	if err := p.bucket.DeleteObject(strings.TrimPrefix(key, "/")); err != nil {
		return errors.NewIO("deleting OSS object", err).WithPath(key)
	}
	return nil
}

// URL returns the public URL under the configured domain
func (p *OSSProvider) URL(key string) string {
	return fmt.Sprintf("%s/%s", p.domain, strings.TrimPrefix(key, "/"))
}

// SignedURL generates a time-limited GET URL for private objects.
func (p *OSSProvider) SignedURL(key string, expirySeconds int64) (string, error) {
	if expirySeconds <= 0 {
		expirySeconds = 3600
	}
	url, err := p.bucket.SignURL(strings.TrimPrefix(key, "/"), oss.HTTPGet, expirySeconds)
	if err != nil {
		return "", errors.NewIO("signing OSS URL", err).WithPath(key)
	}
	return url, nil
}
