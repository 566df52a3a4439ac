package fileproc

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.temporal.io/sdk/client"
)

// StartJobResult is returned by StartJob.
type StartJobResult struct {
	JobID      string `json:"jobId"`
	WorkflowID string `json:"workflowId"`
}

// workflowIDFor derives the stable workflow id used for all subsequent
// lookups of a job, per the external-interfaces contract.
func workflowIDFor(jobID string) string {
	return "file-processing-" + jobID
}

// Control is the transport-agnostic control-plane surface wrapping a
// Temporal client. Grounded on the teacher's CLI command functions
// (cmd/desync/make.go et al.) for the "thin function wrapping a backing
// client" shape, generalized into a library API instead of a CLI body.
// Jobs is optional: when set, GetStatus and GetProgress fall back to it once
// the owning workflow is no longer queryable, per the rule that the
// persisted job record is authoritative after terminal settlement.
type Control struct {
	Client    client.Client
	TaskQueue string
	Jobs      JobStore
}

func NewControl(c client.Client, taskQueue string, jobs JobStore) *Control {
	return &Control{Client: c, TaskQueue: taskQueue, Jobs: jobs}
}

// StartJob mints a job id (unless the request already carries one) and
// starts the job workflow.
func (ctl *Control) StartJob(ctx context.Context, req FileProcessingRequest) (StartJobResult, error) {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	workflowID := workflowIDFor(req.JobID)
	_, err := ctl.Client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       workflowID,
		TaskQueue:                ctl.TaskQueue,
		WorkflowExecutionTimeout: JobExecutionTimeout,
		WorkflowRunTimeout:       JobRunTimeout,
	}, JobWorkflow, req.WithDefaults())
	if err != nil {
		return StartJobResult{}, errors.Wrap(err, "starting job workflow")
	}
	return StartJobResult{JobID: req.JobID, WorkflowID: workflowID}, nil
}

// GetStatus queries the job workflow's current in-memory JobStatus. Once the
// workflow is no longer queryable (completed and aged out of history
// retention), it falls back to the persisted JobStore record.
func (ctl *Control) GetStatus(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	resp, err := ctl.Client.QueryWorkflow(ctx, workflowIDFor(jobID), "", queryJobStatus)
	if err != nil {
		return ctl.fallbackToJobStore(ctx, jobID, err)
	}
	if err := resp.Get(&status); err != nil {
		return status, errors.Wrap(err, "decoding job status")
	}
	return status, nil
}

// GetProgress queries the job workflow for a freshly recomputed aggregate,
// falling back to the JobStore on the same terms as GetStatus.
func (ctl *Control) GetProgress(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	resp, err := ctl.Client.QueryWorkflow(ctx, workflowIDFor(jobID), "", queryDetailedProgress)
	if err != nil {
		return ctl.fallbackToJobStore(ctx, jobID, err)
	}
	if err := resp.Get(&status); err != nil {
		return status, errors.Wrap(err, "decoding job progress")
	}
	return status, nil
}

func (ctl *Control) fallbackToJobStore(ctx context.Context, jobID string, queryErr error) (JobStatus, error) {
	if ctl.Jobs == nil {
		return JobStatus{}, errors.Wrap(queryErr, "querying job status")
	}
	status, err := ctl.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return JobStatus{}, errors.Wrap(queryErr, "querying job status")
	}
	return status, nil
}

// Pause signals the job workflow to suspend scheduling of new chunks.
func (ctl *Control) Pause(ctx context.Context, jobID string) error {
	return errors.Wrap(ctl.Client.SignalWorkflow(ctx, workflowIDFor(jobID), "", signalPause, nil), "pausing job")
}

// Resume signals the job workflow to resume scheduling.
func (ctl *Control) Resume(ctx context.Context, jobID string) error {
	return errors.Wrap(ctl.Client.SignalWorkflow(ctx, workflowIDFor(jobID), "", signalResume, nil), "resuming job")
}

// Cancel signals the job workflow to stop scheduling new chunks and
// transition to CANCELLED at its next suspension point.
func (ctl *Control) Cancel(ctx context.Context, jobID string) error {
	return errors.Wrap(ctl.Client.SignalWorkflow(ctx, workflowIDFor(jobID), "", signalCancel, nil), "cancelling job")
}
