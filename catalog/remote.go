package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-git/v6"

	golemerrors "github.com/golemdb/golemdb-sql-go/errors"
)

// S3Config carries optional S3-compatible credentials for ExportRemote and
// ImportRemote. A nil *S3Config falls back to the default AWS credential
// chain.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local"
)

func detectScheme(target string) urlScheme {
	lower := strings.ToLower(target)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return schemeS3
	case strings.HasPrefix(lower, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lower, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lower, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// ExportRemote writes a snapshot of the named schema's catalog file to a
// local path, file:// URL, or s3:// URL (spec §6.3's backup surface — a
// point-in-time copy of the persisted catalog outside the git history it
// already carries).
func (s *Store) ExportRemote(schemaID, target string, cfg *S3Config) error {
	data, err := s.Snapshot(schemaID)
	if err != nil {
		return err
	}

	w, err := openRemoteWriter(target, cfg)
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := w.Write(data); err != nil {
		return golemerrors.OperationalError(err, "writing catalog export for schema %q to %s", schemaID, target)
	}
	return nil
}

// ImportRemote reads a catalog file from a local path, file://, http(s)://,
// or s3:// URL and installs it as the named schema, committing the import
// like any other DDL change.
func (s *Store) ImportRemote(schemaID, source string, cfg *S3Config) error {
	r, err := openRemoteReader(source, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return golemerrors.OperationalError(err, "reading catalog import for schema %q from %s", schemaID, source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := schemaFileName(schemaID)
	w, err := s.fs.Create(name)
	if err != nil {
		return golemerrors.OperationalError(err, "installing imported catalog file for schema %q", schemaID)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return golemerrors.OperationalError(err, "writing imported catalog file for schema %q", schemaID)
	}
	if err := w.Close(); err != nil {
		return golemerrors.OperationalError(err, "closing imported catalog file for schema %q", schemaID)
	}

	if _, err := s.wt.Add(name); err != nil {
		return golemerrors.OperationalError(err, "staging imported catalog file for schema %q", schemaID)
	}

	sig := author
	sig.When = time.Now()
	if _, err := s.wt.Commit(commitMessage(schemaID, "import from "+source), &git.CommitOptions{
		Author:    &sig,
		Committer: &sig,
	}); err != nil {
		return golemerrors.OperationalError(err, "committing catalog import for schema %q", schemaID)
	}

	return nil
}

func openRemoteReader(target string, cfg *S3Config) (io.ReadCloser, error) {
	switch detectScheme(target) {
	case schemeLocal, schemeFile:
		return os.Open(strings.TrimPrefix(target, "file://"))
	case schemeHTTP, schemeHTTPS:
		return openHTTPReader(target)
	case schemeS3:
		return openS3Reader(target, cfg)
	default:
		return nil, golemerrors.InterfaceError("unsupported catalog export URL scheme: %s", target)
	}
}

func openRemoteWriter(target string, cfg *S3Config) (io.WriteCloser, error) {
	switch detectScheme(target) {
	case schemeLocal, schemeFile:
		return os.Create(strings.TrimPrefix(target, "file://"))
	case schemeHTTP, schemeHTTPS:
		return nil, golemerrors.NotSupportedError("HTTP/HTTPS does not support writing catalog exports")
	case schemeS3:
		return openS3Writer(target, cfg)
	default:
		return nil, golemerrors.InterfaceError("unsupported catalog export URL scheme: %s", target)
	}
}

func openHTTPReader(url string) (io.ReadCloser, error) {
	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return nil, golemerrors.OperationalError(err, "fetching catalog import from %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, golemerrors.OperationalError(nil, "fetching catalog import from %s returned status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

func parseS3URL(url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 {
		return "", "", golemerrors.InterfaceError("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

func getS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg != nil && cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg != nil && cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, golemerrors.OperationalError(err, "loading AWS config")
	}

	var clientOpts []func(*s3.Options)
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

func openS3Reader(url string, cfg *S3Config) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	resp, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, golemerrors.OperationalError(err, "fetching S3 object s3://%s/%s", bucket, key)
	}
	return resp.Body, nil
}

type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buffer []byte
	closed bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, golemerrors.InternalError("write to closed S3 writer")
	}
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   strings.NewReader(string(w.buffer)),
	})
	if err != nil {
		return golemerrors.OperationalError(err, "uploading S3 object s3://%s/%s", w.bucket, w.key)
	}
	return nil
}

func openS3Writer(url string, cfg *S3Config) (io.WriteCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &s3Writer{ctx: ctx, client: client, bucket: bucket, key: key}, nil
}
