package fileproc

import (
	"strconv"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	signalPause  = "pauseProcessing"
	signalResume = "resumeProcessing"
	signalCancel = "cancelProcessing"

	queryJobStatus        = "getJobStatus"
	queryDetailedProgress = "getDetailedProgress"
)

// JobWorkflow is the sole writer of JobStatus. It analyzes the file, spawns
// bounded-parallel chunk child workflows, aggregates their progress, runs
// the optional reprocess pass, and finalizes. Grounded on the teacher's
// ChunkStorage.Start (n-worker pool over a results map keyed by index),
// translated from raw goroutines/channels to workflow.Go + workflow.Await
// since workflow code must stay deterministic.
func JobWorkflow(ctx workflow.Context, req FileProcessingRequest) (JobStatus, error) {
	req = req.WithDefaults()

	status := JobStatus{
		JobID:     req.JobID,
		Status:    JobStarted,
		StartTime: workflow.Now(ctx),
	}

	var isPaused, isCancelled bool
	var activeChunks int
	chunkResults := make(map[int]ChunkProgress)

	if err := workflow.SetQueryHandler(ctx, queryJobStatus, func() (JobStatus, error) {
		return status, nil
	}); err != nil {
		return status, err
	}
	if err := workflow.SetQueryHandler(ctx, queryDetailedProgress, func() (JobStatus, error) {
		return recomputeAggregates(status, chunkResults), nil
	}); err != nil {
		return status, err
	}

	pauseChan := workflow.GetSignalChannel(ctx, signalPause)
	resumeChan := workflow.GetSignalChannel(ctx, signalResume)
	cancelChan := workflow.GetSignalChannel(ctx, signalCancel)

	// drainSignals applies every signal queued since the last suspension
	// point without blocking, per the stated "signals take effect at the
	// next suspension point" contract.
	drainSignals := func() {
		for pauseChan.ReceiveAsync(nil) {
			isPaused = true
		}
		for resumeChan.ReceiveAsync(nil) {
			isPaused = false
		}
		for cancelChan.ReceiveAsync(nil) {
			isCancelled = true
			isPaused = false
		}
	}

	shortCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ShortStartToCloseTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    ShortInitialInterval,
			MaximumInterval:    ShortMaxInterval,
			BackoffCoefficient: ShortBackoffCoefficient,
			MaximumAttempts:    ShortMaxAttempts,
		},
	})

	var fileActivities *FileActivities

	status.Status = JobAnalyzingFile
	var analysis FileAnalysisResult
	if err := workflow.ExecuteActivity(shortCtx, fileActivities.AnalyzeFile, req).Get(ctx, &analysis); err != nil {
		return settleJob(ctx, shortCtx, fileActivities, status, JobFailed, err.Error()), nil
	}
	status.TotalChunks = analysis.TotalChunks
	status.TotalUsers = analysis.EstimatedRowCount
	status.Status = JobProcessingChunks

	for i := 0; i < analysis.TotalChunks; i++ {
		drainSignals()
		if isCancelled {
			return settleJob(ctx, shortCtx, fileActivities, status, JobCancelled, JobCancelledError{JobID: status.JobID}.Error()), nil
		}

		if err := workflow.Await(ctx, func() bool {
			drainSignals()
			return isCancelled || (!isPaused && activeChunks < req.MaxParallelChunks)
		}); err != nil {
			return settleJob(ctx, shortCtx, fileActivities, status, JobFailed, err.Error()), nil
		}
		drainSignals()
		if isCancelled {
			return settleJob(ctx, shortCtx, fileActivities, status, JobCancelled, JobCancelledError{JobID: status.JobID}.Error()), nil
		}

		chunkIndex := i
		childID := req.JobID + "-chunk-" + strconv.Itoa(chunkIndex)
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID: childID,
		})
		future := workflow.ExecuteChildWorkflow(childCtx, ChunkWorkflow, ChunkWorkflowInput{
			Request:       req,
			JobID:         req.JobID,
			ChunkIndex:    chunkIndex,
			FileSizeBytes: analysis.FileSizeBytes,
		})
		activeChunks++

		workflow.Go(ctx, func(gctx workflow.Context) {
			var progress ChunkProgress
			err := future.Get(gctx, &progress)
			activeChunks--
			if err != nil {
				progress.Status = ChunkFailed
				progress.ChunkIndex = chunkIndex
				progress.ErrorMessage = err.Error()
			}
			chunkResults[chunkIndex] = progress
			status = recomputeAggregates(status, chunkResults)
		})
	}

	if err := workflow.Await(ctx, func() bool { return len(chunkResults) == analysis.TotalChunks }); err != nil {
		return settleJob(ctx, shortCtx, fileActivities, status, JobFailed, err.Error()), nil
	}
	status = recomputeAggregates(status, chunkResults)

	for _, progress := range chunkResults {
		if progress.Status == ChunkFailed {
			cause := ChunkExhaustedError{JobID: req.JobID, ChunkIndex: progress.ChunkIndex}
			return settleJob(ctx, shortCtx, fileActivities, status, JobFailed, cause.Error()), nil
		}
	}

	if req.ReprocessFailures {
		var failed []FailedRecord
		if err := workflow.ExecuteActivity(shortCtx, fileActivities.GetFailedRecords, req.JobID, false).Get(ctx, &failed); err != nil {
			return settleJob(ctx, shortCtx, fileActivities, status, JobFailed, err.Error()), nil
		}
		if len(failed) > 0 {
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
			var reprocessed ReprocessResult
			if err := workflow.ExecuteActivity(longCtx, fileActivities.ReprocessFailedRecords, req.JobID, failed).Get(ctx, &reprocessed); err != nil {
				return settleJob(ctx, shortCtx, fileActivities, status, JobFailed, err.Error()), nil
			}
			status.ReprocessedValid += reprocessed.SuccessfullyProcessed
			status.ValidUsers += reprocessed.SuccessfullyProcessed
			status.InvalidUsers -= reprocessed.SuccessfullyProcessed
			if status.InvalidUsers < 0 {
				status.InvalidUsers = 0
			}
		}
	}

	return settleJob(ctx, shortCtx, fileActivities, status, JobCompleted, ""), nil
}

// recomputeAggregates sums per-chunk counters into the job-level fields,
// run every time a chunk settles and on every getDetailedProgress query.
func recomputeAggregates(status JobStatus, chunkResults map[int]ChunkProgress) JobStatus {
	var processed, valid, invalid, duplicate int64
	var completed int
	for _, progress := range chunkResults {
		processed += progress.ProcessedRows
		valid += progress.ValidRows
		invalid += progress.InvalidRows
		duplicate += progress.DuplicateRows
		if progress.Status == ChunkCompleted {
			completed++
		}
	}
	status.ProcessedUsers = processed
	status.ValidUsers = valid
	status.InvalidUsers = invalid
	status.DuplicateUsers = duplicate
	status.CompletedChunks = completed
	return status
}

// settleJob drives every terminal transition through the FinalizeJob
// activity so the settled JobStatus is persisted to the JobStore, per the
// requirement that the persisted job record be authoritative once a job
// workflow ages out of Temporal's history retention. If the activity
// dispatch itself fails (e.g. no worker available), the status is stamped
// locally instead so the workflow still returns a terminal result.
func settleJob(ctx, shortCtx workflow.Context, fileActivities *FileActivities, status JobStatus, final JobStatusState, errMsg string) JobStatus {
	var finalStatus JobStatus
	if err := workflow.ExecuteActivity(shortCtx, fileActivities.FinalizeJob, status, final, errMsg).Get(ctx, &finalStatus); err != nil {
		finalStatus = status
		finalStatus.Status = final
		finalStatus.ErrorMessage = errMsg
		now := workflow.Now(ctx)
		finalStatus.EndTime = &now
		return finalStatus
	}
	return finalStatus
}
