package fileproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

func TestJobWorkflowHappyPath(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ChunkWorkflow)

	var fileActivities *FileActivities
	env.OnActivity(fileActivities.AnalyzeFile, mock.Anything, mock.Anything).
		Return(FileAnalysisResult{FileSizeBytes: 100, TotalChunks: 2, EstimatedRowCount: 10}, nil)
	env.OnActivity(fileActivities.GetFailedRecords, mock.Anything, mock.Anything, mock.Anything).
		Return([]FailedRecord{}, nil)
	env.OnActivity(fileActivities.FinalizeJob, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, status JobStatus, final JobStatusState, errMsg string) JobStatus {
			status.Status = final
			return status
		})

	env.OnWorkflow(ChunkWorkflow, mock.Anything, mock.Anything).Return(
		func(ctx workflow.Context, input ChunkWorkflowInput) (ChunkProgress, error) {
			return ChunkProgress{
				JobID:         input.JobID,
				ChunkIndex:    input.ChunkIndex,
				Status:        ChunkCompleted,
				ProcessedRows: 5,
				ValidRows:     5,
			}, nil
		})

	env.ExecuteWorkflow(JobWorkflow, FileProcessingRequest{
		JobID: "job-1", Directory: "dir", Filename: "file.csv", MaxParallelChunks: 2,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var status JobStatus
	require.NoError(t, env.GetWorkflowResult(&status))
	require.Equal(t, JobCompleted, status.Status)
	require.Equal(t, 2, status.CompletedChunks)
	require.Equal(t, int64(10), status.ProcessedUsers)
	require.Equal(t, int64(10), status.ValidUsers)
}

func TestJobWorkflowCancelSignalStopsScheduling(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ChunkWorkflow)

	var fileActivities *FileActivities
	env.OnActivity(fileActivities.AnalyzeFile, mock.Anything, mock.Anything).
		Return(FileAnalysisResult{FileSizeBytes: 100, TotalChunks: 5, EstimatedRowCount: 10}, nil)
	env.OnActivity(fileActivities.FinalizeJob, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, status JobStatus, final JobStatusState, errMsg string) JobStatus {
			status.Status = final
			status.ErrorMessage = errMsg
			return status
		})

	// A zero-delay callback is delivered before the workflow's first
	// suspension point, so the cancel lands before any chunk is scheduled
	// and no ChunkWorkflow mock is needed.
	env.RegisterDelayedCallback(func() {
		env.SignalWorkflow(signalCancel, nil)
	}, 0)

	env.ExecuteWorkflow(JobWorkflow, FileProcessingRequest{
		JobID: "job-1", Directory: "dir", Filename: "file.csv", MaxParallelChunks: 1,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var status JobStatus
	require.NoError(t, env.GetWorkflowResult(&status))
	require.Equal(t, JobCancelled, status.Status)
}

func TestJobWorkflowAnalyzeFailureFailsJob(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ChunkWorkflow)

	var fileActivities *FileActivities
	env.OnActivity(fileActivities.AnalyzeFile, mock.Anything, mock.Anything).
		Return(FileAnalysisResult{}, AnalysisError{Directory: "dir", Filename: "file.csv", Cause: require.AnError})
	env.OnActivity(fileActivities.FinalizeJob, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, status JobStatus, final JobStatusState, errMsg string) JobStatus {
			status.Status = final
			status.ErrorMessage = errMsg
			return status
		})

	env.ExecuteWorkflow(JobWorkflow, FileProcessingRequest{JobID: "job-1", Directory: "dir", Filename: "file.csv"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var status JobStatus
	require.NoError(t, env.GetWorkflowResult(&status))
	require.Equal(t, JobFailed, status.Status)
	require.NotEmpty(t, status.ErrorMessage)
}

func TestRecomputeAggregatesSumsChunkCounters(t *testing.T) {
	chunkResults := map[int]ChunkProgress{
		0: {Status: ChunkCompleted, ProcessedRows: 10, ValidRows: 8, InvalidRows: 1, DuplicateRows: 1},
		1: {Status: ChunkFailed, ProcessedRows: 3, ValidRows: 2, InvalidRows: 1},
	}
	status := recomputeAggregates(JobStatus{}, chunkResults)
	require.Equal(t, int64(13), status.ProcessedUsers)
	require.Equal(t, int64(10), status.ValidUsers)
	require.Equal(t, int64(2), status.InvalidUsers)
	require.Equal(t, int64(1), status.DuplicateUsers)
	require.Equal(t, 1, status.CompletedChunks)
}
