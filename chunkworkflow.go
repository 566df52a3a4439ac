package fileproc

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ChunkWorkflowInput is the argument to ChunkWorkflow.
type ChunkWorkflowInput struct {
	Request       FileProcessingRequest
	JobID         string
	ChunkIndex    int
	FileSizeBytes int64
}

// chunkProgressQuery names the query that returns the workflow's in-memory
// ChunkProgress snapshot, so a query never blocks on an activity call.
var chunkProgressQuery = "getChunkProgress"

// ChunkWorkflow drives a single chunk through
// PENDING -> READING -> PROCESSING -> COMPLETED/FAILED. Grounded on the
// teacher's pChunker state machine in make.go (start/done/err fields driving
// a sequential read-then-process loop), reworked from a goroutine into a
// Temporal workflow function so progress survives a worker crash.
func ChunkWorkflow(ctx workflow.Context, input ChunkWorkflowInput) (ChunkProgress, error) {
	progress := ChunkProgress{
		JobID:      input.JobID,
		ChunkIndex: input.ChunkIndex,
		Status:     ChunkPending,
		StartTime:  workflow.Now(ctx),
	}

	if err := workflow.SetQueryHandler(ctx, chunkProgressQuery, func() (ChunkProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, err
	}

	longCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: LongStartToCloseTimeout,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    LongInitialInterval,
			MaximumInterval:    LongMaxInterval,
			BackoffCoefficient: LongBackoffCoefficient,
			MaximumAttempts:    LongMaxAttempts,
		},
	})
	shortCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ShortStartToCloseTimeout,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    ShortInitialInterval,
			MaximumInterval:    ShortMaxInterval,
			BackoffCoefficient: ShortBackoffCoefficient,
			MaximumAttempts:    ShortMaxAttempts,
			NonRetryableErrorTypes: []string{"BoundaryAlignmentError"},
		},
	})

	// activities is a nil struct pointer used only so ExecuteActivity can
	// take a method value to derive the registered activity's name; it is
	// never dereferenced inside the workflow.
	var activities *RowRangeActivities

	var bounds ChunkBoundaries
	if err := workflow.ExecuteActivity(shortCtx, activities.CalculateChunkBoundaries, input.Request, input.FileSizeBytes, input.ChunkIndex).Get(ctx, &bounds); err != nil {
		return recordChunkFailure(shortCtx, activities, progress, err)
	}
	progress.StartOffset = bounds.StartOffset
	progress.EndOffset = bounds.EndOffset

	progress.Status = ChunkReading
	if err := workflow.ExecuteActivity(shortCtx, activities.UpdateChunkProgress, progress).Get(ctx, nil); err != nil {
		return progress, err
	}

	var chunkData ChunkData
	if err := workflow.ExecuteActivity(longCtx, activities.ReadChunkFromFile, input.Request, bounds).Get(ctx, &chunkData); err != nil {
		return recordChunkFailure(shortCtx, activities, progress, err)
	}
	progress.TotalRows = chunkData.RowCount

	progress.Status = ChunkProcessing
	if err := workflow.ExecuteActivity(shortCtx, activities.UpdateChunkProgress, progress).Get(ctx, nil); err != nil {
		return progress, err
	}

	lines := splitLines(chunkData.Data)
	batchSize := input.Request.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	batchesSinceUpdate := 0
	for start := 0; start < len(lines); start += batchSize {
		end := start + batchSize
		if end > len(lines) {
			end = len(lines)
		}
		batch := lines[start:end]

		var result BatchProcessingResult
		err := workflow.ExecuteActivity(longCtx, activities.ProcessUserBatch, input.Request, input.JobID, batch, int64(start)+1).Get(ctx, &result)
		if err != nil {
			return recordChunkFailure(shortCtx, activities, progress, err)
		}

		progress.ProcessedRows += result.ProcessedCount
		progress.ValidRows += result.ValidCount
		progress.InvalidRows += result.InvalidCount
		progress.DuplicateRows += result.DuplicateCount
		batchesSinceUpdate++

		isFinalBatch := end == len(lines)
		if batchesSinceUpdate >= ProgressUpdateBatchInterval || isFinalBatch {
			if err := workflow.ExecuteActivity(shortCtx, activities.UpdateChunkProgress, progress).Get(ctx, nil); err != nil {
				return progress, err
			}
			batchesSinceUpdate = 0
		}
	}

	if err := workflow.ExecuteActivity(shortCtx, activities.FinalizeChunk, progress).Get(ctx, nil); err != nil {
		return progress, err
	}
	progress.Status = ChunkCompleted
	return progress, nil
}

func recordChunkFailure(shortCtx workflow.Context, activities *RowRangeActivities, progress ChunkProgress, cause error) (ChunkProgress, error) {
	progress.Status = ChunkFailed
	progress.ErrorMessage = cause.Error()
	progress.RetryAttempt++
	_ = workflow.ExecuteActivity(shortCtx, activities.RecordChunkFailure, progress).Get(shortCtx, nil)
	return progress, ChunkExhaustedError{JobID: progress.JobID, ChunkIndex: progress.ChunkIndex, Cause: cause}
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == lineTerminator {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}
