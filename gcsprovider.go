package fileproc

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// GCSFileProvider reads byte ranges from Google Cloud Storage. Directory is
// the bucket, filename the object name, mirroring the teacher's GCS store.
type GCSFileProvider struct {
	client *storage.Client
}

var _ FileProvider = (*GCSFileProvider)(nil)

// NewGCSFileProvider creates a client, optionally using a service-account
// credentials file; pass an empty credentialsFile to use ambient
// application-default credentials.
func NewGCSFileProvider(ctx context.Context, credentialsFile string) (*GCSFileProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "creating gcs client")
	}
	return &GCSFileProvider{client: client}, nil
}

func (p *GCSFileProvider) Size(ctx context.Context, directory, filename string) (int64, error) {
	attrs, err := p.client.Bucket(directory).Object(filename).Attrs(ctx)
	if err != nil {
		return 0, errors.Wrap(err, p.String())
	}
	return attrs.Size, nil
}

func (p *GCSFileProvider) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	r, err := p.client.Bucket(directory).Object(filename).NewRangeReader(ctx, start, end-start)
	if err != nil {
		return nil, errors.Wrap(err, p.String())
	}
	defer r.Close()
	buf := make([]byte, end-start)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, errors.Wrap(err, "reading object range")
	}
	return buf[:n], nil
}

func (p *GCSFileProvider) String() string {
	return "gs://"
}
