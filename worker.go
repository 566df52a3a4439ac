package fileproc

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

// WorkerConfig bundles everything a fileprocd process needs to register and
// run the job/chunk workflows and their activities.
type WorkerConfig struct {
	Config

	Providers     FileProvider
	JobStore      JobStore
	ChunkProgress ChunkProgressStore
	FailedRecords FailedRecordStore
	Plans         PartitionPlanStore
	Dedup         DedupIndex
	RowProcessor  RowProcessor
}

// RunWorker dials Temporal (retrying with backoff, since the server may not
// be up yet when the daemon starts), registers JobWorkflow/ChunkWorkflow and
// their activities, and blocks serving the task queue until ctx is
// cancelled. Grounded on the teacher's cmd/desync/server.go long-running
// server command shape.
func RunWorker(ctx context.Context, cfg WorkerConfig) error {
	var c client.Client
	dial := func() error {
		var err error
		c, err = client.Dial(client.Options{
			HostPort:  cfg.TemporalHostPort,
			Namespace: cfg.TemporalNamespace,
		})
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(dial, backoff.WithContext(policy, ctx)); err != nil {
		return errors.Wrap(err, "dialing temporal server")
	}
	defer c.Close()

	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflow(JobWorkflow)
	w.RegisterWorkflow(ChunkWorkflow)

	rowActivities := &RowRangeActivities{
		Providers:     cfg.Providers,
		ChunkProgress: cfg.ChunkProgress,
		FailedRecords: cfg.FailedRecords,
		Dedup:         cfg.Dedup,
		RowProcessor:  cfg.RowProcessor,
	}
	fileActivities := &FileActivities{
		Providers:     cfg.Providers,
		Plans:         cfg.Plans,
		FailedRecords: cfg.FailedRecords,
		RowProcessor:  cfg.RowProcessor,
		Jobs:          cfg.JobStore,
	}
	w.RegisterActivity(rowActivities)
	w.RegisterActivity(fileActivities)

	Log.WithField("taskQueue", cfg.TaskQueue).Info("starting fileproc worker")

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(worker.InterruptCh()) }()

	select {
	case <-ctx.Done():
		w.Stop()
		return ctx.Err()
	case err := <-errCh:
		return errors.Wrap(err, "worker run")
	}
}
