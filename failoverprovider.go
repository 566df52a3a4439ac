package fileproc

import (
	"context"
	"strings"
	"sync"
)

// FailoverProvider wraps multiple FileProviders to fail over between them.
// Only one provider is "active" at a time; on an error the next provider
// becomes active and the same request is retried against it, so a call
// fails only once every provider has returned an error. All providers are
// expected to serve the same (directory, filename) locators. Grounded on
// the teacher's FailoverGroup, generalized from ChunkID lookups to byte
// ranges.
type FailoverProvider struct {
	providers []FileProvider
	active    int
	mu        sync.RWMutex
}

var _ FileProvider = (*FailoverProvider)(nil)

func NewFailoverProvider(providers ...FileProvider) *FailoverProvider {
	return &FailoverProvider{providers: providers}
}

func (g *FailoverProvider) current() (FileProvider, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.providers[g.active], g.active
}

func (g *FailoverProvider) errorFrom(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i != g.active {
		return
	}
	g.active = (g.active + 1) % len(g.providers)
}

func (g *FailoverProvider) Size(ctx context.Context, directory, filename string) (int64, error) {
	var gErr error
	for i := 0; i < len(g.providers); i++ {
		p, active := g.current()
		size, err := p.Size(ctx, directory, filename)
		if err == nil {
			return size, nil
		}
		gErr = err
		g.errorFrom(active)
	}
	return 0, gErr
}

func (g *FailoverProvider) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	var gErr error
	for i := 0; i < len(g.providers); i++ {
		p, active := g.current()
		b, err := p.ReadRange(ctx, directory, filename, start, end)
		if err == nil {
			return b, nil
		}
		gErr = err
		g.errorFrom(active)
	}
	return nil, gErr
}

func (g *FailoverProvider) String() string {
	var strs []string
	for _, p := range g.providers {
		strs = append(strs, p.String())
	}
	return strings.Join(strs, "|")
}
