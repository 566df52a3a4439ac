package fileproc

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// BadgerStore is an embedded-KV implementation of JobStore,
// ChunkProgressStore, FailedRecordStore and PartitionPlanStore backed by a
// single badger database, key-namespaced by record kind. Grounded on the
// teacher's single-directory, key-addressed local store, generalized from
// chunk blobs to structured records encoded with msgpack.
type BadgerStore struct {
	db *badger.DB
}

var (
	_ JobStore           = (*BadgerStore)(nil)
	_ ChunkProgressStore = (*BadgerStore)(nil)
	_ FailedRecordStore  = (*BadgerStore)(nil)
	_ PartitionPlanStore = (*BadgerStore)(nil)
)

// NewBadgerStore opens (creating if necessary) a badger database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger database")
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreReadOnly opens dir without taking badger's write lock, so a
// control-plane process can read job records out of the same database a
// worker process has open for writing. Only GetJob/GetPlan/list-style reads
// are meaningful on the result; write calls will fail against badger itself.
func NewBadgerStoreReadOnly(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil).WithReadOnly(true)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger database read-only")
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

// DB exposes the underlying badger handle so collaborators sharing the same
// embedded database, such as BadgerDedupIndex, can open their own
// transactions against it.
func (s *BadgerStore) DB() *badger.DB { return s.db }

func jobKey(jobID string) []byte {
	return []byte("job\x00" + jobID)
}

func chunkProgressKey(jobID string, chunkIndex int) []byte {
	return []byte(fmt.Sprintf("chunkprogress\x00%s\x00%08d", jobID, chunkIndex))
}

func chunkProgressPrefix(jobID string) []byte {
	return []byte("chunkprogress\x00" + jobID + "\x00")
}

func failedRecordKey(jobID string, chunkIndex int, lineNumber int64) []byte {
	return []byte(fmt.Sprintf("failedrecord\x00%s\x00%08d\x00%012d", jobID, chunkIndex, lineNumber))
}

func failedRecordPrefix(jobID string) []byte {
	return []byte("failedrecord\x00" + jobID + "\x00")
}

func planKeyBytes(directory, filename string, chunkSizeBytes int64) []byte {
	return []byte("plan\x00" + PlanKey(directory, filename, chunkSizeBytes))
}

func (s *BadgerStore) PutJob(ctx context.Context, status JobStatus) error {
	b, err := msgpack.Marshal(status)
	if err != nil {
		return errors.Wrap(err, "marshal job status")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(jobKey(status.JobID), b)
	})
}

func (s *BadgerStore) GetJob(ctx context.Context, jobID string) (JobStatus, error) {
	var status JobStatus
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(jobID))
		if err == badger.ErrKeyNotFound {
			return NotFoundError{Kind: "job", Key: jobID}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &status)
		})
	})
	return status, err
}

// UpsertChunkProgress stores progress only if it supersedes (has an equal
// or greater ProcessedRows than) any previously stored snapshot for the
// same (jobId, chunkIndex), giving updateChunkProgress idempotent,
// latest-wins semantics.
func (s *BadgerStore) UpsertChunkProgress(ctx context.Context, progress ChunkProgress) error {
	progress = progress.WithSeen()
	return s.db.Update(func(txn *badger.Txn) error {
		key := chunkProgressKey(progress.JobID, progress.ChunkIndex)
		item, err := txn.Get(key)
		if err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err == nil {
			var existing ChunkProgress
			if verr := item.Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &existing)
			}); verr != nil {
				return verr
			}
			if existing.ProcessedRows > progress.ProcessedRows {
				return nil
			}
		}
		b, err := msgpack.Marshal(progress)
		if err != nil {
			return err
		}
		return txn.Set(key, b)
	})
}

func (s *BadgerStore) GetChunkProgress(ctx context.Context, jobID string, chunkIndex int) (ChunkProgress, error) {
	var progress ChunkProgress
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkProgressKey(jobID, chunkIndex))
		if err == badger.ErrKeyNotFound {
			return NotFoundError{Kind: "chunkprogress", Key: fmt.Sprintf("%s/%d", jobID, chunkIndex)}
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &progress)
		})
	})
	return progress, err
}

func (s *BadgerStore) ListChunkProgress(ctx context.Context, jobID string) ([]ChunkProgress, error) {
	var result []ChunkProgress
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = chunkProgressPrefix(jobID)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var progress ChunkProgress
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &progress)
			}); err != nil {
				return err
			}
			result = append(result, progress)
		}
		return nil
	})
	return result, err
}

func (s *BadgerStore) AppendFailedRecord(ctx context.Context, record FailedRecord) error {
	b, err := msgpack.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal failed record")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(failedRecordKey(record.JobID, record.ChunkIndex, record.LineNumber), b)
	})
}

func (s *BadgerStore) GetFailedRecords(ctx context.Context, jobID string, includeReprocessed bool) ([]FailedRecord, error) {
	var result []FailedRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = failedRecordPrefix(jobID)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var record FailedRecord
			if err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &record)
			}); err != nil {
				return err
			}
			if record.Reprocessed && !includeReprocessed {
				continue
			}
			result = append(result, record)
		}
		return nil
	})
	return result, err
}

func (s *BadgerStore) MarkReprocessed(ctx context.Context, jobID string, chunkIndex int, lineNumber int64, success bool) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := failedRecordKey(jobID, chunkIndex, lineNumber)
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var record FailedRecord
		if err := item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &record)
		}); err != nil {
			return err
		}
		record.Reprocessed = success
		b, err := msgpack.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(key, b)
	})
}

func (s *BadgerStore) PutPlan(ctx context.Context, plan PartitionPlan) error {
	b, err := msgpack.Marshal(plan)
	if err != nil {
		return errors.Wrap(err, "marshal partition plan")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(planKeyBytes(plan.Directory, plan.Filename, plan.ChunkSizeBytes), b)
	})
}

func (s *BadgerStore) GetPlan(ctx context.Context, directory, filename string, chunkSizeBytes int64) (PartitionPlan, bool, error) {
	var plan PartitionPlan
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(planKeyBytes(directory, filename, chunkSizeBytes))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &plan)
		})
	})
	return plan, found, err
}
