package fileproc

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// ProviderRouter dispatches to the right FileProvider based on the scheme
// prefix of a request's Directory locator ("file://", "s3://", "gs://").
// Grounded on the teacher's StoreRouter, but routing by scheme rather than
// chunk-missing fallthrough since each scheme here names a disjoint
// backend rather than a list of stores to try in order.
type ProviderRouter struct {
	Providers map[string]FileProvider // scheme -> provider
}

var _ FileProvider = ProviderRouter{}

func NewProviderRouter(providers map[string]FileProvider) ProviderRouter {
	return ProviderRouter{Providers: providers}
}

func splitScheme(directory string) (scheme, rest string) {
	if i := strings.Index(directory, "://"); i >= 0 {
		return directory[:i], directory[i+3:]
	}
	return "file", directory
}

func (r ProviderRouter) resolve(directory string) (FileProvider, string, error) {
	scheme, rest := splitScheme(directory)
	p, ok := r.Providers[scheme]
	if !ok {
		return nil, "", errors.Errorf("no file provider registered for scheme %q", scheme)
	}
	return p, rest, nil
}

func (r ProviderRouter) Size(ctx context.Context, directory, filename string) (int64, error) {
	p, dir, err := r.resolve(directory)
	if err != nil {
		return 0, err
	}
	return p.Size(ctx, dir, filename)
}

func (r ProviderRouter) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	p, dir, err := r.resolve(directory)
	if err != nil {
		return nil, err
	}
	return p.ReadRange(ctx, dir, filename, start, end)
}

func (r ProviderRouter) String() string {
	var schemes []string
	for scheme := range r.Providers {
		schemes = append(schemes, scheme)
	}
	return strings.Join(schemes, ",")
}
