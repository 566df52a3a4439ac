package fileproc

import (
	"context"
	"sync"
)

// SwapProvider wraps a FileProvider and allows swapping the underlying
// provider at runtime, e.g. reloading credentials or endpoint config on
// SIGHUP without restarting the worker. Grounded on the teacher's
// SwapStore.
type SwapProvider struct {
	mu sync.RWMutex
	p  FileProvider
}

var _ FileProvider = (*SwapProvider)(nil)

func NewSwapProvider(p FileProvider) *SwapProvider {
	return &SwapProvider{p: p}
}

func (s *SwapProvider) Swap(p FileProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
}

func (s *SwapProvider) current() FileProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

func (s *SwapProvider) Size(ctx context.Context, directory, filename string) (int64, error) {
	return s.current().Size(ctx, directory, filename)
}

func (s *SwapProvider) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	return s.current().ReadRange(ctx, directory, filename, start, end)
}

func (s *SwapProvider) String() string {
	return s.current().String()
}
