//go:build !windows

package fileproc

import (
	"os"
	"syscall"
)

// DefaultBlockSize is used to size local-provider read buffers when the
// filesystem's native block size can't be determined.
const DefaultBlockSize = 4096

func blocksizeOfFile(name string) uint64 {
	stat, err := os.Stat(name)
	if err != nil {
		return DefaultBlockSize
	}
	switch sys := stat.Sys().(type) {
	case *syscall.Stat_t:
		return uint64(sys.Blksize)
	default:
		return DefaultBlockSize
	}
}
