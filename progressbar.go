package fileproc

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh/terminal"
	pb "gopkg.in/cheggaaa/pb.v1"
)

// NewProgressBar initializes a wrapper for a https://github.com/cheggaaa/pb
// progressbar that implements ProgressBar, rendering a job's processed/total
// row counters.
func NewProgressBar(prefix string) ProgressBar {
	if !terminal.IsTerminal(int(os.Stderr.Fd())) &&
		os.Getenv("FILEPROC_PROGRESSBAR_ENABLED") == "" &&
		os.Getenv("FILEPROC_ENABLE_PARSABLE_PROGRESS") == "" {
		return NullProgressBar{}
	}
	bar := pb.New(0).Prefix(prefix)
	bar.ShowCounters = false
	bar.Output = os.Stderr
	if os.Getenv("FILEPROC_ENABLE_PARSABLE_PROGRESS") != "" {
		// Likely going to a journal or redirected to a file, lower the
		// refresh rate from the default 200ms to a more manageable 500ms.
		bar.SetRefreshRate(time.Millisecond * 500)
		bar.ShowBar = false
		bar.Callback = func(s string) { fmt.Fprintln(os.Stderr, s) }
		bar.Output = nil
	}
	return DefaultProgressBar{bar}
}

// DefaultProgressBar wraps https://github.com/cheggaaa/pb and implements ProgressBar.
type DefaultProgressBar struct {
	*pb.ProgressBar
}

func (p DefaultProgressBar) SetTotal(total int) {
	p.ProgressBar.SetTotal(total)
}

func (p DefaultProgressBar) Start() {
	p.ProgressBar.Start()
}

func (p DefaultProgressBar) Set(current int) {
	p.ProgressBar.Set(current)
}

func (p DefaultProgressBar) Write(b []byte) (n int, err error) {
	return p.ProgressBar.Write(b)
}
