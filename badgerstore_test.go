package fileproc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStoreJobRoundTrip(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := t.Context()

	_, err := s.GetJob(ctx, "missing")
	require.Error(t, err)
	require.IsType(t, NotFoundError{}, err)

	status := JobStatus{JobID: "job-1", Status: JobProcessingChunks, TotalChunks: 4}
	require.NoError(t, s.PutJob(ctx, status))

	got, err := s.GetJob(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, status, got)
}

func TestBadgerStoreChunkProgressLatestWins(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := t.Context()

	require.NoError(t, s.UpsertChunkProgress(ctx, ChunkProgress{JobID: "job-1", ChunkIndex: 0, ProcessedRows: 10}))
	require.NoError(t, s.UpsertChunkProgress(ctx, ChunkProgress{JobID: "job-1", ChunkIndex: 0, ProcessedRows: 5}))

	got, err := s.GetChunkProgress(ctx, "job-1", 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), got.ProcessedRows)

	require.NoError(t, s.UpsertChunkProgress(ctx, ChunkProgress{JobID: "job-1", ChunkIndex: 1, ProcessedRows: 3}))
	all, err := s.ListChunkProgress(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestBadgerStoreFailedRecordsAndReprocess(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := t.Context()

	require.NoError(t, s.AppendFailedRecord(ctx, FailedRecord{JobID: "job-1", ChunkIndex: 0, LineNumber: 10, RawText: "bad row"}))
	require.NoError(t, s.AppendFailedRecord(ctx, FailedRecord{JobID: "job-1", ChunkIndex: 0, LineNumber: 11, RawText: "also bad"}))

	records, err := s.GetFailedRecords(ctx, "job-1", true)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, s.MarkReprocessed(ctx, "job-1", 0, 10, true))

	active, err := s.GetFailedRecords(ctx, "job-1", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, int64(11), active[0].LineNumber)
}

func TestBadgerStorePartitionPlanCache(t *testing.T) {
	s := newTestBadgerStore(t)
	ctx := t.Context()

	_, found, err := s.GetPlan(ctx, "dir", "a.csv", 1024)
	require.NoError(t, err)
	require.False(t, found)

	plan := PartitionPlan{Directory: "dir", Filename: "a.csv", ChunkSizeBytes: 1024, Analysis: FileAnalysisResult{TotalChunks: 3}}
	require.NoError(t, s.PutPlan(ctx, plan))

	got, found, err := s.GetPlan(ctx, "dir", "a.csv", 1024)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, plan, got)
}
