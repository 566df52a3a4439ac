package fileproc

import (
	"bytes"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.temporal.io/sdk/activity"
)

// RowRangeActivities bundles the chunk-level activities run by ChunkWorkflow.
// Grounded on the teacher's chop.go (bounded chunk worker reading/validating
// one span at a time); Temporal activity heartbeating stands in for the
// liveness signal desync never needed since it predates running under a
// workflow fabric.
type RowRangeActivities struct {
	Providers     FileProvider
	ChunkProgress ChunkProgressStore
	FailedRecords FailedRecordStore
	Dedup         DedupIndex
	RowProcessor  RowProcessor
}

// CalculateChunkBoundaries computes the row-aligned byte range for a chunk
// index, scanning forward from both fixed-size partition edges for the next
// line terminator.
func (a *RowRangeActivities) CalculateChunkBoundaries(ctx context.Context, req FileProcessingRequest, fileSizeBytes int64, chunkIndex int) (ChunkBoundaries, error) {
	req = req.WithDefaults()
	read := func(start, end int64) ([]byte, error) {
		return SampleRange(ctx, a.Providers, req.Directory, req.Filename, start, end)
	}
	bounds, err := calculateChunkBoundaries(fileSizeBytes, req.ChunkSizeBytes, chunkIndex, req.BoundaryScanWindowBytes, read)
	if err != nil {
		if ba, ok := err.(BoundaryAlignmentError); ok {
			ba.Directory, ba.Filename, ba.ChunkIndex = req.Directory, req.Filename, chunkIndex
			return ChunkBoundaries{}, ba
		}
		return ChunkBoundaries{}, err
	}
	return bounds, nil
}

// ReadChunkFromFile reads the chunk's byte range off the file provider and
// counts its rows. The first line of chunk 0 is the file's header: it is
// stripped from both the returned bytes and rowCount, so callers never see
// it as a data row.
func (a *RowRangeActivities) ReadChunkFromFile(ctx context.Context, req FileProcessingRequest, bounds ChunkBoundaries) (ChunkData, error) {
	start := time.Now()
	data, err := a.Providers.ReadRange(ctx, req.Directory, req.Filename, bounds.StartOffset, bounds.EndOffset)
	bench.addDiskRead(start)
	bench.incReads()
	if err != nil {
		return ChunkData{}, errors.Wrapf(err, "reading chunk %d of %s/%s", bounds.ChunkIndex, req.Directory, req.Filename)
	}
	if bounds.ChunkIndex == 0 {
		data = stripHeaderRow(data)
	}
	var rowCount int64
	for _, b := range data {
		if b == lineTerminator {
			rowCount++
		}
	}
	return ChunkData{Data: data, RowCount: rowCount}, nil
}

// stripHeaderRow removes the file's first line and its terminator. A header
// line with no trailing terminator (a header-only file) strips to nothing.
func stripHeaderRow(data []byte) []byte {
	idx := bytes.IndexByte(data, lineTerminator)
	if idx < 0 {
		return nil
	}
	return data[idx+1:]
}

// ProcessUserBatch validates one batch of already-read rows, optionally
// deduplicating them against the job-wide dedup index, and heartbeats so
// Temporal's activity-timeout machinery sees liveness across a long chunk.
func (a *RowRangeActivities) ProcessUserBatch(ctx context.Context, req FileProcessingRequest, jobID string, rawLines []string, startLineNumber int64) (BatchProcessingResult, error) {
	var dedupCheck func(rowID string) (bool, error)
	if req.EnableDeduplication && a.Dedup != nil {
		dedupCheck = func(rowID string) (bool, error) {
			return a.Dedup.CheckAndSet(ctx, jobID, RowIdentityKey(jobID, rowID))
		}
	}

	start := time.Now()
	rows, err := a.RowProcessor.ProcessRows(ctx, rawLines, startLineNumber, dedupCheck)
	bench.addRowValidate(start)
	if err != nil {
		return BatchProcessingResult{}, errors.Wrap(err, "processing row batch")
	}

	var result BatchProcessingResult
	for _, row := range rows {
		result.ProcessedCount++
		switch {
		case row.Valid:
			result.ValidCount++
		case row.Duplicate:
			result.DuplicateCount++
		default:
			result.InvalidCount++
			if a.FailedRecords != nil {
				failure := FailedRecord{
					JobID:            jobID,
					LineNumber:       row.LineNumber,
					RawText:          row.RawText,
					FailureType:      row.FailureType,
					ValidationErrors: row.Errors,
					FailedAt:         time.Now(),
					RowID:            row.RowID,
				}
				if err := a.FailedRecords.AppendFailedRecord(ctx, failure); err != nil {
					return result, errors.Wrap(err, "recording failed row")
				}
			}
		}
		if result.ProcessedCount%100 == 0 {
			activity.RecordHeartbeat(ctx, result)
		}
	}
	activity.RecordHeartbeat(ctx, result)
	return result, nil
}

// UpdateChunkProgress persists a latest-wins snapshot of a chunk's progress.
func (a *RowRangeActivities) UpdateChunkProgress(ctx context.Context, progress ChunkProgress) error {
	return a.ChunkProgress.UpsertChunkProgress(ctx, progress.WithSeen())
}

// RecordChunkFailure persists a chunk's final progress snapshot as failed.
// The caller stamps progress.Status and progress.ErrorMessage before
// calling, since an error value itself doesn't survive an activity's
// argument round trip through the data converter.
func (a *RowRangeActivities) RecordChunkFailure(ctx context.Context, progress ChunkProgress) error {
	now := time.Now()
	progress.EndTime = &now
	return a.ChunkProgress.UpsertChunkProgress(ctx, progress.WithSeen())
}

// FinalizeChunk marks a chunk's final progress snapshot as completed.
func (a *RowRangeActivities) FinalizeChunk(ctx context.Context, progress ChunkProgress) error {
	progress.Status = ChunkCompleted
	now := time.Now()
	progress.EndTime = &now
	return a.ChunkProgress.UpsertChunkProgress(ctx, progress.WithSeen())
}
