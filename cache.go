package fileproc

import (
	"context"
	"sync"
	"time"
)

// JobStatusCache wraps a JobStore with an in-memory cache: PutJob writes
// through to the backing store, and GetJob serves an entry younger than the
// TTL without reading the backing store. The worker puts it in front of its
// badger JobStore; Control.GetStatus does not read through it (it queries
// the live workflow, then a read-only BadgerStore). Grounded on the
// teacher's Cache (local store in front of a
// slower remote one), adapted from chunk bytes to JobStatus snapshots with
// a TTL instead of unconditional local persistence, since job status
// changes frequently and a stale read is acceptable for a bounded window.
type JobStatusCache struct {
	backing JobStore
	ttl     time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	status    JobStatus
	storedAt  time.Time
}

func NewJobStatusCache(backing JobStore, ttl time.Duration) *JobStatusCache {
	return &JobStatusCache{backing: backing, ttl: ttl, entries: make(map[string]cacheEntry)}
}

var _ JobStore = (*JobStatusCache)(nil)

func (c *JobStatusCache) PutJob(ctx context.Context, status JobStatus) error {
	if err := c.backing.PutJob(ctx, status); err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[status.JobID] = cacheEntry{status: status, storedAt: time.Now()}
	c.mu.Unlock()
	return nil
}

func (c *JobStatusCache) GetJob(ctx context.Context, jobID string) (JobStatus, error) {
	c.mu.RLock()
	entry, ok := c.entries[jobID]
	c.mu.RUnlock()
	if ok && time.Since(entry.storedAt) < c.ttl {
		return entry.status, nil
	}
	status, err := c.backing.GetJob(ctx, jobID)
	if err != nil {
		return status, err
	}
	c.mu.Lock()
	c.entries[jobID] = cacheEntry{status: status, storedAt: time.Now()}
	c.mu.Unlock()
	return status, nil
}

func (c *JobStatusCache) Close() error { return c.backing.Close() }
