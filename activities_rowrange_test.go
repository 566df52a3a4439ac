package fileproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func newRowRangeTestEnv(t *testing.T) (*testsuite.TestActivityEnvironment, *RowRangeActivities) {
	t.Helper()
	store := newTestBadgerStore(t)
	a := &RowRangeActivities{
		Providers:     LocalFileProvider{Root: t.TempDir()},
		ChunkProgress: store,
		FailedRecords: store,
		Dedup:         NewBadgerDedupIndex(store.DB()),
		RowProcessor:  NewDefaultRowProcessor(),
	}
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	return env, a
}

func TestReadChunkFromFileCountsRows(t *testing.T) {
	dir := t.TempDir()
	env, a := newRowRangeTestEnv(t)
	a.Providers = LocalFileProvider{Root: dir}

	writeFile(t, dir, "in", "data.csv", "a,b,c\nd,e,f\ng,h,i\n")

	req := FileProcessingRequest{Directory: "in", Filename: "data.csv"}
	val, err := env.ExecuteActivity(a.ReadChunkFromFile, req, ChunkBoundaries{ChunkIndex: 1, StartOffset: 0, EndOffset: 18})
	require.NoError(t, err)

	var data ChunkData
	require.NoError(t, val.Get(&data))
	require.Equal(t, int64(3), data.RowCount)
}

func TestReadChunkFromFileStripsHeaderOnChunkZero(t *testing.T) {
	dir := t.TempDir()
	env, a := newRowRangeTestEnv(t)
	a.Providers = LocalFileProvider{Root: dir}

	writeFile(t, dir, "in", "data.csv", "id,name,email\nd,e,f\ng,h,i\n")

	req := FileProcessingRequest{Directory: "in", Filename: "data.csv"}
	val, err := env.ExecuteActivity(a.ReadChunkFromFile, req, ChunkBoundaries{ChunkIndex: 0, StartOffset: 0, EndOffset: 26})
	require.NoError(t, err)

	var data ChunkData
	require.NoError(t, val.Get(&data))
	require.Equal(t, int64(2), data.RowCount)
	require.Equal(t, "d,e,f\ng,h,i\n", string(data.Data))
}

func TestReadChunkFromFileHeaderOnlyFileYieldsZeroRows(t *testing.T) {
	dir := t.TempDir()
	env, a := newRowRangeTestEnv(t)
	a.Providers = LocalFileProvider{Root: dir}

	writeFile(t, dir, "in", "data.csv", "id,name,email,co,a\n")

	req := FileProcessingRequest{Directory: "in", Filename: "data.csv"}
	val, err := env.ExecuteActivity(a.ReadChunkFromFile, req, ChunkBoundaries{ChunkIndex: 0, StartOffset: 0, EndOffset: 19})
	require.NoError(t, err)

	var data ChunkData
	require.NoError(t, val.Get(&data))
	require.Equal(t, int64(0), data.RowCount)
	require.Empty(t, data.Data)
}

func TestProcessUserBatchValidAndInvalid(t *testing.T) {
	env, a := newRowRangeTestEnv(t)

	req := FileProcessingRequest{EnableDeduplication: true}
	lines := []string{
		"u1,Alice,alice@example.com,Acme,1 Main St",
		"u2,Bob,not-an-email,Acme,2 Main St",
	}
	val, err := env.ExecuteActivity(a.ProcessUserBatch, req, "job-1", lines, int64(1))
	require.NoError(t, err)

	var result BatchProcessingResult
	require.NoError(t, val.Get(&result))
	require.Equal(t, int64(2), result.ProcessedCount)
	require.Equal(t, int64(1), result.ValidCount)
	require.Equal(t, int64(1), result.InvalidCount)

	records, err := a.FailedRecords.GetFailedRecords(t.Context(), "job-1", true)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, ValidationError, records[0].FailureType)
}

func TestProcessUserBatchDeduplicatesAcrossCalls(t *testing.T) {
	env, a := newRowRangeTestEnv(t)
	req := FileProcessingRequest{EnableDeduplication: true}
	line := []string{"u1,Alice,alice@example.com,Acme,1 Main St"}

	val, err := env.ExecuteActivity(a.ProcessUserBatch, req, "job-1", line, int64(1))
	require.NoError(t, err)
	var first BatchProcessingResult
	require.NoError(t, val.Get(&first))
	require.Equal(t, int64(1), first.ValidCount)

	val, err = env.ExecuteActivity(a.ProcessUserBatch, req, "job-1", line, int64(2))
	require.NoError(t, err)
	var second BatchProcessingResult
	require.NoError(t, val.Get(&second))
	require.Equal(t, int64(1), second.DuplicateCount)
}

func TestUpdateChunkProgressAndFinalize(t *testing.T) {
	env, a := newRowRangeTestEnv(t)

	progress := ChunkProgress{JobID: "job-1", ChunkIndex: 0, ProcessedRows: 5}
	_, err := env.ExecuteActivity(a.UpdateChunkProgress, progress)
	require.NoError(t, err)

	_, err = env.ExecuteActivity(a.FinalizeChunk, progress)
	require.NoError(t, err)

	stored, err := a.ChunkProgress.GetChunkProgress(t.Context(), "job-1", 0)
	require.NoError(t, err)
	require.Equal(t, ChunkCompleted, stored.Status)
	require.NotNil(t, stored.EndTime)
}

func TestRecordChunkFailure(t *testing.T) {
	env, a := newRowRangeTestEnv(t)

	progress := ChunkProgress{JobID: "job-1", ChunkIndex: 0, Status: ChunkFailed, ErrorMessage: require.AnError.Error()}
	_, err := env.ExecuteActivity(a.RecordChunkFailure, progress)
	require.NoError(t, err)

	stored, err := a.ChunkProgress.GetChunkProgress(t.Context(), "job-1", 0)
	require.NoError(t, err)
	require.Equal(t, ChunkFailed, stored.Status)
	require.Equal(t, require.AnError.Error(), stored.ErrorMessage)
}

func writeFile(t *testing.T, root, dir, filename, contents string) {
	t.Helper()
	fullDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(fullDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(fullDir, filename), []byte(contents), 0o644))
}
