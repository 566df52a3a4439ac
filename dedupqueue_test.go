package fileproc

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingDedupIndex struct {
	calls int64
	seen  map[string]bool
	mu    sync.Mutex
}

func (c *countingDedupIndex) CheckAndSet(ctx context.Context, jobID, identityKey string) (bool, error) {
	atomic.AddInt64(&c.calls, 1)
	time.Sleep(time.Millisecond) // widen the coalescing window
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = map[string]bool{}
	}
	key := jobID + "\x00" + identityKey
	already := c.seen[key]
	c.seen[key] = true
	return already, nil
}

func (c *countingDedupIndex) Close() error { return nil }

func TestBadgerDedupIndexCheckAndSet(t *testing.T) {
	s := newTestBadgerStore(t)
	idx := NewBadgerDedupIndex(s.DB())
	ctx := t.Context()

	seen, err := idx.CheckAndSet(ctx, "job-1", "row-1")
	require.NoError(t, err)
	require.False(t, seen)

	seen, err = idx.CheckAndSet(ctx, "job-1", "row-1")
	require.NoError(t, err)
	require.True(t, seen)

	seen, err = idx.CheckAndSet(ctx, "job-2", "row-1")
	require.NoError(t, err)
	require.False(t, seen)
}

func TestDedupQueueCoalescesConcurrentCalls(t *testing.T) {
	backing := &countingDedupIndex{}
	q := NewDedupQueue(backing)

	var wg sync.WaitGroup
	results := make([]bool, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen, err := q.CheckAndSet(t.Context(), "job-1", "row-1")
			require.NoError(t, err)
			results[i] = seen
		}(i)
	}
	wg.Wait()

	// All concurrent callers for the same key piggyback on one real
	// backing check, but only the resolver that actually made the call can
	// report alreadySeen=false; every coalesced waiter is itself a
	// duplicate of that same in-flight mutation and must report true.
	require.Equal(t, int64(1), atomic.LoadInt64(&backing.calls))
	falseCount := 0
	for _, r := range results {
		if !r {
			falseCount++
		}
	}
	require.Equal(t, 1, falseCount)

	// A second wave now sees the key as already set, still via one call.
	seen, err := q.CheckAndSet(t.Context(), "job-1", "row-1")
	require.NoError(t, err)
	require.True(t, seen)
	require.Equal(t, int64(2), atomic.LoadInt64(&backing.calls))
}
