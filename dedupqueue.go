package fileproc

import (
	"context"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
)

// DedupIndex answers, transactionally, whether a row identity key has
// already been accepted within a job; the uniqueness scope is per job per
// §4.1. CheckAndSet atomically marks the key seen and reports whether it
// was already present.
type DedupIndex interface {
	CheckAndSet(ctx context.Context, jobID, identityKey string) (alreadySeen bool, err error)
	Close() error
}

func dedupIndexKey(jobID, identityKey string) []byte {
	return []byte(fmt.Sprintf("dedup\x00%s\x00%s", jobID, identityKey))
}

// BadgerDedupIndex is a DedupIndex backed by badger, sharing the engine's
// embedded-KV dependency.
type BadgerDedupIndex struct {
	db *badger.DB
}

var _ DedupIndex = (*BadgerDedupIndex)(nil)

func NewBadgerDedupIndex(db *badger.DB) *BadgerDedupIndex {
	return &BadgerDedupIndex{db: db}
}

func (idx *BadgerDedupIndex) CheckAndSet(ctx context.Context, jobID, identityKey string) (bool, error) {
	var alreadySeen bool
	err := idx.db.Update(func(txn *badger.Txn) error {
		key := dedupIndexKey(jobID, identityKey)
		_, err := txn.Get(key)
		switch err {
		case nil:
			alreadySeen = true
			return nil
		case badger.ErrKeyNotFound:
			return txn.Set(key, []byte{1})
		default:
			return err
		}
	})
	return alreadySeen, err
}

func (idx *BadgerDedupIndex) Close() error { return nil }

// DedupQueue wraps a DedupIndex and coalesces concurrent CheckAndSet calls
// for the same (jobId, identityKey): when a burst of batches in the same
// chunk (or sibling chunks) race on the same row id, only the first reaches
// the backing index; the rest wait for it to finish, share its error, and
// otherwise report the key as already seen. Grounded on the
// teacher's DedupQueue, generalized from chunk-id lookups to row-identity
// checks.
type DedupQueue struct {
	index DedupIndex

	mu       sync.Mutex
	inflight map[string]*dedupRequest
}

var _ DedupIndex = (*DedupQueue)(nil)

func NewDedupQueue(index DedupIndex) *DedupQueue {
	return &DedupQueue{index: index, inflight: make(map[string]*dedupRequest)}
}

type dedupRequest struct {
	alreadySeen bool
	err         error
	done        chan struct{}
}

func (q *DedupQueue) CheckAndSet(ctx context.Context, jobID, identityKey string) (bool, error) {
	compositeKey := jobID + "\x00" + identityKey

	q.mu.Lock()
	req, inFlight := q.inflight[compositeKey]
	if !inFlight {
		req = &dedupRequest{done: make(chan struct{})}
		q.inflight[compositeKey] = req
	}
	q.mu.Unlock()

	if inFlight {
		select {
		case <-req.done:
			if req.err != nil {
				return false, req.err
			}
			// CheckAndSet is a set-once mutation, not an idempotent read: by
			// the time req.done closes, the key is set in the index
			// regardless of whether the resolver found it already present.
			// Every coalesced waiter is therefore itself a duplicate, even
			// one that arrived before the resolver's call completed.
			return true, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	alreadySeen, err := q.index.CheckAndSet(ctx, jobID, identityKey)
	req.alreadySeen, req.err = alreadySeen, err
	close(req.done)

	q.mu.Lock()
	delete(q.inflight, compositeKey)
	q.mu.Unlock()

	return alreadySeen, err
}

func (q *DedupQueue) Close() error { return q.index.Close() }
