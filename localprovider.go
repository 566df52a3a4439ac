package fileproc

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LocalFileProvider reads byte ranges off local disk. One *os.File is
// opened per call rather than kept resident, mirroring the teacher's
// per-worker filehandle pattern in its bounded worker pools, since range
// reads here are driven by independent Temporal activities rather than a
// shared goroutine pool.
type LocalFileProvider struct {
	Root string
}

var _ FileProvider = LocalFileProvider{}

func (p LocalFileProvider) path(directory, filename string) string {
	return filepath.Join(p.Root, directory, filename)
}

func (p LocalFileProvider) Size(ctx context.Context, directory, filename string) (int64, error) {
	info, err := os.Stat(p.path(directory, filename))
	if err != nil {
		return 0, errors.Wrap(err, "stat")
	}
	return info.Size(), nil
}

func (p LocalFileProvider) ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error) {
	f, err := os.Open(p.path(directory, filename))
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()

	buf := make([]byte, end-start)
	n, err := f.ReadAt(buf, start)
	if err != nil && n != len(buf) {
		return nil, errors.Wrap(err, "read range")
	}
	return buf[:n], nil
}

func (p LocalFileProvider) String() string {
	return "local:" + p.Root
}
