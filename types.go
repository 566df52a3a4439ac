package fileproc

import "time"

// ChunkStatus is the lifecycle of a single chunk workflow.
type ChunkStatus string

const (
	ChunkPending    ChunkStatus = "PENDING"
	ChunkReading    ChunkStatus = "READING"
	ChunkProcessing ChunkStatus = "PROCESSING"
	ChunkCompleted  ChunkStatus = "COMPLETED"
	ChunkFailed     ChunkStatus = "FAILED"
	ChunkRetrying   ChunkStatus = "RETRYING"
)

// JobStatusState is the lifecycle of the job workflow.
type JobStatusState string

const (
	JobStarted          JobStatusState = "STARTED"
	JobAnalyzingFile    JobStatusState = "ANALYZING_FILE"
	JobProcessingChunks JobStatusState = "PROCESSING_CHUNKS"
	JobCompleted        JobStatusState = "COMPLETED"
	JobFailed           JobStatusState = "FAILED"
	JobCancelled        JobStatusState = "CANCELLED"
)

// FailureType classifies why a row didn't make it through processing.
type FailureType string

const (
	ValidationError FailureType = "VALIDATION_ERROR"
	ProcessingError FailureType = "PROCESSING_ERROR"
	DuplicateRow    FailureType = "DUPLICATE_ROW"
	ParseError      FailureType = "PARSE_ERROR"
)

// FileProcessingRequest is the immutable input that starts a job. The tuple
// (Directory, Filename, ChunkSizeBytes) fully determines the partitioning
// plan for a given snapshot of the file.
type FileProcessingRequest struct {
	JobID               string `json:"jobId"`
	Directory           string `json:"directory"`
	Filename            string `json:"filename"`
	ChunkSizeBytes      int64  `json:"chunkSizeBytes"`
	MaxParallelChunks   int    `json:"maxParallelChunks"`
	EnableDeduplication bool   `json:"enableDeduplication"`
	ReprocessFailures   bool   `json:"reprocessFailures"`

	// BatchSize, BoundaryScanWindowBytes and AnalysisSampleBytes fall back
	// to package-level defaults (see config.go) when zero.
	BatchSize               int   `json:"batchSize,omitempty"`
	BoundaryScanWindowBytes int   `json:"boundaryScanWindowBytes,omitempty"`
	AnalysisSampleBytes     int64 `json:"analysisSampleBytes,omitempty"`
}

// FileAnalysisResult is the derived sizing/partitioning summary produced by
// the analyzeFile activity. Not persisted independently of the job; see
// PartitionPlan for the cached form.
type FileAnalysisResult struct {
	FileSizeBytes     int64 `json:"fileSizeBytes"`
	EstimatedRowCount int64 `json:"estimatedRowCount"`
	TotalChunks       int   `json:"totalChunks"`
	ChunkSizeBytes    int64 `json:"chunkSizeBytes"`
}

// ChunkBoundaries is a row-aligned half-open byte range.
type ChunkBoundaries struct {
	ChunkIndex      int   `json:"chunkIndex"`
	StartOffset     int64 `json:"startOffset"`
	EndOffset       int64 `json:"endOffset"`
	ActualChunkSize int64 `json:"actualChunkSize"`
}

// ChunkData is the result of reading a chunk's byte range off the file
// provider, along with the row count inside it.
type ChunkData struct {
	Data     []byte `json:"-"`
	RowCount int64  `json:"rowCount"`
}

// BatchProcessingResult is returned by processUserBatch for one row
// sub-range of a chunk.
type BatchProcessingResult struct {
	ProcessedCount int64 `json:"processedCount"`
	ValidCount     int64 `json:"validCount"`
	InvalidCount   int64 `json:"invalidCount"`
	DuplicateCount int64 `json:"duplicateCount"`
}

// ChunkProgress is keyed by (jobId, chunkIndex).
type ChunkProgress struct {
	JobID       string      `msgpack:"jobId" json:"jobId"`
	ChunkIndex  int         `msgpack:"chunkIndex" json:"chunkIndex"`
	StartOffset int64       `msgpack:"startOffset" json:"startOffset"`
	EndOffset   int64       `msgpack:"endOffset" json:"endOffset"`
	Status      ChunkStatus `msgpack:"status" json:"status"`

	TotalRows     int64 `msgpack:"totalRows" json:"totalRows"`
	ProcessedRows int64 `msgpack:"processedRows" json:"processedRows"`
	ValidRows     int64 `msgpack:"validRows" json:"validRows"`
	InvalidRows   int64 `msgpack:"invalidRows" json:"invalidRows"`
	DuplicateRows int64 `msgpack:"duplicateRows" json:"duplicateRows"`

	StartTime    time.Time  `msgpack:"startTime" json:"startTime"`
	EndTime      *time.Time `msgpack:"endTime,omitempty" json:"endTime,omitempty"`
	ErrorMessage string     `msgpack:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	RetryAttempt int        `msgpack:"retryAttempt" json:"retryAttempt"`

	// seen disambiguates "no update received yet" from "updated to the
	// zero value", since several counters above are legitimately zero. It
	// is unexported, so msgpack and JSON encoding drop it: a snapshot read
	// back from a store or an activity result reports Seen() false.
	seen bool
}

// Seen reports whether this snapshot reflects an actual update rather than
// a zero-value placeholder.
func (c ChunkProgress) Seen() bool { return c.seen }

// WithSeen returns a copy of c marked as having been observed. Call sites
// that construct a snapshot from activity results use this before storing.
func (c ChunkProgress) WithSeen() ChunkProgress {
	c.seen = true
	return c
}

// JobStatus is keyed by jobId and is written only by the owning job workflow
// until it reaches a terminal state.
type JobStatus struct {
	JobID  string         `msgpack:"jobId" json:"jobId"`
	Status JobStatusState `msgpack:"status" json:"status"`

	TotalChunks     int `msgpack:"totalChunks" json:"totalChunks"`
	CompletedChunks int `msgpack:"completedChunks" json:"completedChunks"`

	TotalUsers     int64 `msgpack:"totalUsers" json:"totalUsers"`
	ProcessedUsers int64 `msgpack:"processedUsers" json:"processedUsers"`
	ValidUsers     int64 `msgpack:"validUsers" json:"validUsers"`
	InvalidUsers   int64 `msgpack:"invalidUsers" json:"invalidUsers"`
	DuplicateUsers int64 `msgpack:"duplicateUsers" json:"duplicateUsers"`

	// ReprocessedValid tracks the raw reprocess-success count, kept
	// separately from the folded ValidUsers/InvalidUsers adjustment per
	// the open question on undercounting across failure categories.
	ReprocessedValid int64 `msgpack:"reprocessedValid" json:"reprocessedValid"`

	StartTime    time.Time  `msgpack:"startTime" json:"startTime"`
	EndTime      *time.Time `msgpack:"endTime,omitempty" json:"endTime,omitempty"`
	ErrorMessage string     `msgpack:"errorMessage,omitempty" json:"errorMessage,omitempty"`
}

// FailedRecord identifies a row that did not make it through processing.
// (JobID, ChunkIndex, LineNumber) forms its identity.
type FailedRecord struct {
	JobID      string `msgpack:"jobId" json:"jobId"`
	ChunkIndex int    `msgpack:"chunkIndex" json:"chunkIndex"`
	LineNumber int64  `msgpack:"lineNumber" json:"lineNumber"`

	RawText          string      `msgpack:"rawText" json:"rawText"`
	FailureType      FailureType `msgpack:"failureType" json:"failureType"`
	ValidationErrors []string    `msgpack:"validationErrors,omitempty" json:"validationErrors,omitempty"`
	ErrorMessage     string      `msgpack:"errorMessage,omitempty" json:"errorMessage,omitempty"`
	FailedAt         time.Time   `msgpack:"failedAt" json:"failedAt"`
	Reprocessed      bool        `msgpack:"reprocessed" json:"reprocessed"`
	RowID            string      `msgpack:"rowId,omitempty" json:"rowId,omitempty"`
}

// ReprocessResult summarizes one run of the reprocess pass.
type ReprocessResult struct {
	TotalRecords          int64 `json:"totalRecords"`
	SuccessfullyProcessed int64 `json:"successfullyProcessed"`
	StillFailed           int64 `json:"stillFailed"`
}
