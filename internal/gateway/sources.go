package gateway

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rkas-ledger/internal/domain"
)

const (
	s3Scheme  = "s3://"
	stdinName = "-"
)

// FileSource reads a ledger from the local filesystem.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the ledger file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the base name of the file.
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// FetchRaw returns the full file contents.
func (s *FileSource) FetchRaw(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger file %s: %w", s.path, err)
	}
	return string(data), nil
}

// ReaderSource reads a ledger from an arbitrary reader, typically stdin.
// The reader is consumed on the first fetch.
type ReaderSource struct {
	name   string
	reader io.Reader
}

// NewReaderSource wraps r as a named ledger source.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{name: name, reader: r}
}

func (s *ReaderSource) Name() string { return s.name }

func (s *ReaderSource) FetchRaw(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(s.reader)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger from %s: %w", s.name, err)
	}
	return string(data), nil
}

// S3ObjectGetter is the subset of the S3 client used by S3Source.
type S3ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a ledger object from an S3 bucket.
type S3Source struct {
	client S3ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates a source for s3://bucket/key.
func NewS3Source(client S3ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Name() string {
	return s3Scheme + s.bucket + "/" + s.key
}

func (s *S3Source) FetchRaw(ctx context.Context) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get ledger object %s: %w", s.Name(), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger object %s: %w", s.Name(), err)
	}
	return string(data), nil
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidS3Reference, uri)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidS3Reference, uri)
	}
	return bucket, key, nil
}

// SourceFactory builds ledger sources from location strings.
// S3Client and Stdin may be left nil; they are resolved on demand.
type SourceFactory struct {
	AWSRegion  string
	AWSProfile string
	S3Client   S3ObjectGetter
	Stdin      io.Reader
}

// Source is what SourceFactory produces.
type Source interface {
	Name() string
	FetchRaw(ctx context.Context) (string, error)
}

// New resolves location: "s3://bucket/key" is read from S3, "-" from stdin,
// anything else from the local filesystem.
func (f *SourceFactory) New(ctx context.Context, location string) (Source, error) {
	switch {
	case strings.HasPrefix(location, s3Scheme):
		bucket, key, err := ParseS3URI(location)
		if err != nil {
			return nil, err
		}
		if f.S3Client == nil {
			client, err := NewS3Client(ctx, f.AWSRegion, f.AWSProfile)
			if err != nil {
				return nil, err
			}
			f.S3Client = client
		}
		return NewS3Source(f.S3Client, bucket, key), nil
	case location == stdinName:
		stdin := f.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return NewReaderSource("stdin", stdin), nil
	default:
		return NewFileSource(location), nil
	}
}

// NewS3Client loads the shared AWS configuration and returns an S3 client.
func NewS3Client(ctx context.Context, region, profile string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}
