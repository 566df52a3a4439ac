package fileproc

import (
	"fmt"
	"strings"
	"time"
)

// FormatJobSummary renders a JobStatus as the human-readable block printed
// by `filectl stats`. Grounded on the teacher's benchmark.go/extractstats.go
// dump-to-stdout shape, generalized from I/O timing counters to job
// progress counters.
func FormatJobSummary(status JobStatus) string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "Job:        %s\n", status.JobID)
	fmt.Fprintf(sb, "Status:     %s\n", status.Status)
	fmt.Fprintf(sb, "Chunks:     %d/%d completed\n", status.CompletedChunks, status.TotalChunks)
	fmt.Fprintf(sb, "Rows:       %d processed, %d valid, %d invalid, %d duplicate (of ~%d estimated)\n",
		status.ProcessedUsers, status.ValidUsers, status.InvalidUsers, status.DuplicateUsers, status.TotalUsers)
	if status.ReprocessedValid > 0 {
		fmt.Fprintf(sb, "Reprocess:  %d rows recovered\n", status.ReprocessedValid)
	}
	if !status.StartTime.IsZero() {
		end := time.Now()
		if status.EndTime != nil {
			end = *status.EndTime
		}
		fmt.Fprintf(sb, "Elapsed:    %s\n", end.Sub(status.StartTime).Round(time.Second))
	}
	if status.ErrorMessage != "" {
		fmt.Fprintf(sb, "Error:      %s\n", status.ErrorMessage)
	}
	return sb.String()
}
