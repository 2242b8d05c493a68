package transfer

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// S3API is the subset of the S3 client the channel uses.
type S3API interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, opts ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

// Ensure S3Channel implements the interface.
var _ driven.TransferChannel = (*S3Channel)(nil)

// S3Channel uses a bucket as a partner drop box. Directories are key
// prefixes; only objects directly under a prefix are fetched.
type S3Channel struct {
	api    S3API
	bucket string
	logger *zap.Logger
}

// NewS3Channel creates a channel over api for bucket.
func NewS3Channel(api S3API, bucket string, logger *zap.Logger) *S3Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3Channel{api: api, bucket: bucket, logger: logger}
}

// NewS3Client builds an S3 client. Static keys are used when both are set,
// otherwise the default AWS credential chain applies.
func NewS3Client(ctx context.Context, settings domain.S3Settings) (*s3.Client, error) {
	region := settings.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if settings.AccessKey != "" && settings.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = settings.UsePathStyle
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
		}
	}), nil
}

// key turns a channel path into an object key.
func key(dir, name string) string {
	return strings.TrimPrefix(path.Join("/", dir, name), "/")
}

func prefix(dir string) string {
	p := key(dir, "")
	if p == "" {
		return ""
	}
	return p + "/"
}

// Fetch downloads every object directly under sourceDir into localDir.
func (c *S3Channel) Fetch(ctx context.Context, sourceDir, localDir string) ([]string, error) {
	pfx := prefix(sourceDir)
	var names []string
	p := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Prefix:    aws.String(pfx),
		Delimiter: aws.String("/"),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list s3://%s/%s: %v", domain.ErrTransfer, c.bucket, pfx, err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), pfx)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		dst := filepath.Join(localDir, name)
		if err := c.download(ctx, key(sourceDir, name), dst); err != nil {
			return out, fmt.Errorf("%w: fetch %s: %v", domain.ErrTransfer, name, err)
		}
		out = append(out, dst)
	}
	return out, nil
}

// Deliver uploads localPath as destDir/name.
func (c *S3Channel) Deliver(ctx context.Context, localPath, destDir, name string) (string, error) {
	k := key(destDir, name)
	if err := c.upload(ctx, localPath, k); err != nil {
		return "", fmt.Errorf("%w: deliver %s: %v", domain.ErrTransfer, name, err)
	}
	return "s3://" + c.bucket + "/" + k, nil
}

// Move uploads the local copy under destDir and deletes the source object,
// falling back to a server-side copy and delete.
func (c *S3Channel) Move(ctx context.Context, sourceDir, name, localCopy, destDir string) error {
	src, dst := key(sourceDir, name), key(destDir, name)
	return move(
		func() error {
			if localCopy == "" {
				return c.copy(ctx, src, dst)
			}
			return c.upload(ctx, localCopy, dst)
		},
		func() error { return c.remove(ctx, src) },
		func() error {
			if err := c.copy(ctx, src, dst); err != nil {
				return err
			}
			return c.remove(ctx, src)
		},
	)
}

// Close is a no-op; the SDK client holds no connection state.
func (c *S3Channel) Close() error {
	return nil
}

func (c *S3Channel) download(ctx context.Context, k, local string) error {
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(k)})
	if err != nil {
		return err
	}
	defer out.Body.Close()
	return copyToFile(local, out.Body)
}

func (c *S3Channel) upload(ctx context.Context, local, k string) error {
	f, err := os.Open(local)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(k), Body: f})
	return err
}

func (c *S3Channel) copy(ctx context.Context, src, dst string) error {
	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		CopySource: aws.String(c.bucket + "/" + src),
		Key:        aws.String(dst),
	})
	return err
}

func (c *S3Channel) remove(ctx context.Context, k string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(c.bucket), Key: aws.String(k)})
	return err
}
