package main

import (
	"github.com/pkg/errors"
	"go.temporal.io/sdk/client"

	"github.com/chunkflow/fileproc"
)

// newControl loads the effective config and dials Temporal, returning a
// ready-to-use Control and a closer that releases everything newControl
// opened. Each subcommand calls this once and defers the closer.
//
// If a BadgerDir is configured, it's opened read-only alongside the Temporal
// client so Control.GetStatus/GetProgress can fall back to the persisted job
// record once a workflow ages out of history retention; a missing or
// unreadable store just disables the fallback rather than failing the
// command, since the live Temporal query is still the primary path.
func newControl() (*fileproc.Control, func(), error) {
	cfg, err := fileproc.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading config")
	}
	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHostPort,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "dialing temporal server")
	}

	var jobs fileproc.JobStore
	var jobsCloser func() error
	if cfg.BadgerDir != "" {
		if store, err := fileproc.NewBadgerStoreReadOnly(cfg.BadgerDir); err == nil {
			jobs = store
			jobsCloser = store.Close
		} else {
			fileproc.Log.WithError(err).Debug("job store fallback unavailable")
		}
	}

	closer := func() {
		c.Close()
		if jobsCloser != nil {
			_ = jobsCloser()
		}
	}
	return fileproc.NewControl(c, cfg.TaskQueue, jobs), closer, nil
}
