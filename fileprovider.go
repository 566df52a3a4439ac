package fileproc

import "context"

// FileProvider is the random-access range reader over whatever backs a
// job's input file: local disk or an object store. It is the engine's
// abstraction over the file-bytes provider named as an external
// collaborator; the core only ever calls through this interface.
type FileProvider interface {
	// Size returns the total size in bytes of directory/filename.
	Size(ctx context.Context, directory, filename string) (int64, error)

	// ReadRange returns the bytes in [start, end) of directory/filename.
	ReadRange(ctx context.Context, directory, filename string, start, end int64) ([]byte, error)

	// String identifies the provider for logging.
	String() string
}

// SampleRange is a convenience used by analyzeFile and boundary alignment:
// a range read clamped to the file's actual size.
func SampleRange(ctx context.Context, p FileProvider, directory, filename string, start, end int64) ([]byte, error) {
	size, err := p.Size(ctx, directory, filename)
	if err != nil {
		return nil, err
	}
	if end > size {
		end = size
	}
	if start >= end {
		return nil, nil
	}
	return p.ReadRange(ctx, directory, filename, start, end)
}
