package fileproc

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

// benchmark accumulates per-activity I/O timing counters for operators
// debugging slow partitions. Dumped to stdout on SIGHUP from the worker
// process.
type benchmark struct {
	numReads    uint64
	diskRead    int64
	decompress  int64
	rowValidate int64
	seek        int64
}

var bench = &benchmark{}

func (b *benchmark) addSeek(since time.Time) {
	atomic.AddInt64(&b.seek, int64(time.Since(since)))
}

func (b *benchmark) addDiskRead(since time.Time) {
	atomic.AddInt64(&b.diskRead, int64(time.Since(since)))
}

func (b *benchmark) addDecompress(since time.Time) {
	atomic.AddInt64(&b.decompress, int64(time.Since(since)))
}

func (b *benchmark) addRowValidate(since time.Time) {
	atomic.AddInt64(&b.rowValidate, int64(time.Since(since)))
}

func (b *benchmark) incReads() {
	atomic.AddUint64(&b.numReads, 1)
}

func (b *benchmark) String() string {
	sb := new(strings.Builder)
	sb.WriteString(fmt.Sprintf("Num Reads: %v\n", atomic.LoadUint64(&b.numReads)))
	sb.WriteString(fmt.Sprintf("Disk Read: %v\n", time.Duration(atomic.LoadInt64(&b.diskRead))))
	sb.WriteString(fmt.Sprintf("Decompress: %v\n", time.Duration(atomic.LoadInt64(&b.decompress))))
	sb.WriteString(fmt.Sprintf("Row Validate: %v\n", time.Duration(atomic.LoadInt64(&b.rowValidate))))
	sb.WriteString(fmt.Sprintf("Seek Total: %v\n", time.Duration(atomic.LoadInt64(&b.seek))))
	return sb.String()
}

func init() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			fmt.Println(bench)
		}
	}()
}
