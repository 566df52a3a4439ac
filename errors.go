package fileproc

import "fmt"

// BoundaryAlignmentError is returned by calculateChunkBoundaries when no
// line terminator is found within the scan window. Non-retryable.
type BoundaryAlignmentError struct {
	Directory  string
	Filename   string
	ChunkIndex int
	Offset     int64
	Window     int
}

func (e BoundaryAlignmentError) Error() string {
	return fmt.Sprintf("boundary alignment failure: no line terminator within %d bytes of offset %d in %s/%s (chunk %d)",
		e.Window, e.Offset, e.Directory, e.Filename, e.ChunkIndex)
}

// ChunkExhaustedError surfaces when a chunk workflow exhausts its activity
// retries. It is fatal to the owning job.
type ChunkExhaustedError struct {
	JobID      string
	ChunkIndex int
	Cause      error
}

func (e ChunkExhaustedError) Error() string {
	return fmt.Sprintf("chunk %d of job %s exhausted retries: %v", e.ChunkIndex, e.JobID, e.Cause)
}

func (e ChunkExhaustedError) Unwrap() error { return e.Cause }

// JobCancelledError is raised on the job workflow thread once the cancel
// flag is observed at a suspension point.
type JobCancelledError struct {
	JobID string
}

func (e JobCancelledError) Error() string {
	return fmt.Sprintf("job %s cancelled", e.JobID)
}

// AnalysisError wraps a failure in the analyzeFile activity.
type AnalysisError struct {
	Directory string
	Filename  string
	Cause     error
}

func (e AnalysisError) Error() string {
	return fmt.Sprintf("analysis of %s/%s failed: %v", e.Directory, e.Filename, e.Cause)
}

func (e AnalysisError) Unwrap() error { return e.Cause }

// NotFoundError indicates a job or record wasn't found in a repository.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}
