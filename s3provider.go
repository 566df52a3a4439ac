package fileproc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// S3FileProvider reads byte ranges from an S3-compatible object store.
// Directory is treated as the bucket, filename as the object key, mirroring
// the teacher's S3Store bucket/prefix split.
type S3FileProvider struct {
	Endpoint string
	UseSSL   bool
	client   *minio.Client
}

var _ FileProvider = (*S3FileProvider)(nil)

// NewS3FileProvider creates a client against endpoint using accessKey/
// secretKey, or the S3_ACCESS_KEY/S3_SECRET_KEY environment variables when
// both are empty, matching the teacher's credential precedence.
func NewS3FileProvider(endpoint, accessKey, secretKey string, useSSL bool) (*S3FileProvider, error) {
	if accessKey == "" && secretKey == "" {
		accessKey = os.Getenv("S3_ACCESS_KEY")
		secretKey = os.Getenv("S3_SECRET_KEY")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating s3 client")
	}
	return &S3FileProvider{Endpoint: endpoint, UseSSL: useSSL, client: client}, nil
}

func (p *S3FileProvider) Size(ctx context.Context, directory, filename string) (int64, error) {
	info, err := p.client.StatObject(ctx, directory, filename, minio.StatObjectOptions{})
	if err != nil {
		return 0, errors.Wrap(err, p.String())
	}
	return info.Size, nil
}

func (p *S3FileProvider) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(start, end-1); err != nil {
		return nil, errors.Wrap(err, "set range")
	}
	obj, err := p.client.GetObject(ctx, directory, filename, opts)
	if err != nil {
		return nil, errors.Wrap(err, p.String())
	}
	defer obj.Close()
	buf := make([]byte, end-start)
	n, err := io.ReadFull(obj, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, errors.Wrap(err, "reading object range")
	}
	return buf[:n], nil
}

func (p *S3FileProvider) String() string {
	scheme := "s3+http"
	if p.UseSSL {
		scheme = "s3+https"
	}
	return fmt.Sprintf("%s://%s", scheme, strings.TrimSuffix(p.Endpoint, "/"))
}
