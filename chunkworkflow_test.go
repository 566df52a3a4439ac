package fileproc

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func TestChunkWorkflowHappyPath(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	var activities *RowRangeActivities
	env.OnActivity(activities.CalculateChunkBoundaries, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ChunkBoundaries{ChunkIndex: 0, StartOffset: 0, EndOffset: 10}, nil)
	env.OnActivity(activities.UpdateChunkProgress, mock.Anything, mock.Anything).Return(nil)
	env.OnActivity(activities.ReadChunkFromFile, mock.Anything, mock.Anything, mock.Anything).
		Return(ChunkData{Data: []byte("a,b\nc,d\n"), RowCount: 2}, nil)
	env.OnActivity(activities.ProcessUserBatch, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(BatchProcessingResult{ProcessedCount: 2, ValidCount: 2}, nil)
	env.OnActivity(activities.FinalizeChunk, mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(ChunkWorkflow, ChunkWorkflowInput{
		Request:       FileProcessingRequest{JobID: "job-1", BatchSize: 10},
		JobID:         "job-1",
		ChunkIndex:    0,
		FileSizeBytes: 10,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var progress ChunkProgress
	require.NoError(t, env.GetWorkflowResult(&progress))
	require.Equal(t, ChunkCompleted, progress.Status)
	require.Equal(t, int64(2), progress.ValidRows)
}

func TestChunkWorkflowBoundaryFailureRecordsFailureAndReturnsExhausted(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()

	var activities *RowRangeActivities
	boundaryErr := BoundaryAlignmentError{Directory: "d", Filename: "f", ChunkIndex: 0}
	env.OnActivity(activities.CalculateChunkBoundaries, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ChunkBoundaries{}, boundaryErr)
	env.OnActivity(activities.RecordChunkFailure, mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(ChunkWorkflow, ChunkWorkflowInput{
		Request:       FileProcessingRequest{JobID: "job-1", BatchSize: 10},
		JobID:         "job-1",
		ChunkIndex:    0,
		FileSizeBytes: 10,
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}
