package fileproc

import "context"

// JobStore is the durable repository for JobStatus records, keyed by jobId.
type JobStore interface {
	PutJob(ctx context.Context, status JobStatus) error
	GetJob(ctx context.Context, jobID string) (JobStatus, error)
	Close() error
}

// ChunkProgressStore is the durable repository for ChunkProgress records,
// keyed by (jobId, chunkIndex), with upsert semantics: a snapshot with a
// lower ProcessedRows than the stored one is a no-op; an equal or greater
// one replaces it.
type ChunkProgressStore interface {
	UpsertChunkProgress(ctx context.Context, progress ChunkProgress) error
	GetChunkProgress(ctx context.Context, jobID string, chunkIndex int) (ChunkProgress, error)
	ListChunkProgress(ctx context.Context, jobID string) ([]ChunkProgress, error)
	Close() error
}

// FailedRecordStore is the durable, append-only repository for
// FailedRecord rows, identified by (jobId, chunkIndex, lineNumber).
type FailedRecordStore interface {
	AppendFailedRecord(ctx context.Context, record FailedRecord) error
	GetFailedRecords(ctx context.Context, jobID string, includeReprocessed bool) ([]FailedRecord, error)
	MarkReprocessed(ctx context.Context, jobID string, chunkIndex int, lineNumber int64, success bool) error
	Close() error
}

// PartitionPlanStore caches a PartitionPlan for a (directory, filename,
// chunkSizeBytes) tuple, per the spec's stated invariant that the tuple
// fully determines the plan. AnalyzeFile stores only the analysis result;
// it leaves the plan's Boundaries empty.
type PartitionPlanStore interface {
	PutPlan(ctx context.Context, plan PartitionPlan) error
	GetPlan(ctx context.Context, directory, filename string, chunkSizeBytes int64) (PartitionPlan, bool, error)
	Close() error
}
