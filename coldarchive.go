package fileproc

import (
	"bytes"
	"context"
	"fmt"
	"io"

	minio "github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// ColdArchiveStore is an S3-backed overflow FailedRecordStore. Records are
// compressed then encrypted (PII: email, name, address in the raw row
// text) before being written as objects keyed by
// jobId/chunkIndex/lineNumber. Grounded on the teacher's S3Store, adapted
// from a chunk store to a record store; the Converters pipeline is the
// same compress-then-encrypt chain the teacher composes for chunk storage.
type ColdArchiveStore struct {
	client     *minio.Client
	bucket     string
	converters Converters
}

var _ FailedRecordStore = (*ColdArchiveStore)(nil)

func NewColdArchiveStore(client *minio.Client, bucket string, converters Converters) *ColdArchiveStore {
	return &ColdArchiveStore{client: client, bucket: bucket, converters: converters}
}

func (s *ColdArchiveStore) objectName(jobID string, chunkIndex int, lineNumber int64) string {
	return fmt.Sprintf("%s/%08d/%012d.rec", jobID, chunkIndex, lineNumber)
}

func (s *ColdArchiveStore) AppendFailedRecord(ctx context.Context, record FailedRecord) error {
	plain, err := msgpack.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal failed record")
	}
	stored, err := s.converters.toStorage(plain)
	if err != nil {
		return errors.Wrap(err, "encoding record for cold storage")
	}
	name := s.objectName(record.JobID, record.ChunkIndex, record.LineNumber)
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(stored), int64(len(stored)), minio.PutObjectOptions{})
	return errors.Wrap(err, "writing to cold archive")
}

func (s *ColdArchiveStore) GetFailedRecords(ctx context.Context, jobID string, includeReprocessed bool) ([]FailedRecord, error) {
	var result []FailedRecord
	prefix := jobID + "/"
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, "listing cold archive")
		}
		o, err := s.client.GetObject(ctx, s.bucket, obj.Key, minio.GetObjectOptions{})
		if err != nil {
			return nil, errors.Wrap(err, "reading cold archive object")
		}
		stored, err := io.ReadAll(o)
		o.Close()
		if err != nil {
			return nil, errors.Wrap(err, "reading cold archive object body")
		}
		plain, err := s.converters.fromStorage(stored)
		if err != nil {
			return nil, errors.Wrap(err, "decoding cold archive object")
		}
		var record FailedRecord
		if err := msgpack.Unmarshal(plain, &record); err != nil {
			return nil, errors.Wrap(err, "unmarshal failed record")
		}
		if record.Reprocessed && !includeReprocessed {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func (s *ColdArchiveStore) MarkReprocessed(ctx context.Context, jobID string, chunkIndex int, lineNumber int64, success bool) error {
	name := s.objectName(jobID, chunkIndex, lineNumber)
	o, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "reading cold archive object")
	}
	stored, err := io.ReadAll(o)
	o.Close()
	if err != nil {
		return errors.Wrap(err, "reading cold archive object body")
	}
	plain, err := s.converters.fromStorage(stored)
	if err != nil {
		return errors.Wrap(err, "decoding cold archive object")
	}
	var record FailedRecord
	if err := msgpack.Unmarshal(plain, &record); err != nil {
		return errors.Wrap(err, "unmarshal failed record")
	}
	record.Reprocessed = success
	plain, err = msgpack.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal failed record")
	}
	stored, err = s.converters.toStorage(plain)
	if err != nil {
		return errors.Wrap(err, "encoding record for cold storage")
	}
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(stored), int64(len(stored)), minio.PutObjectOptions{})
	return errors.Wrap(err, "writing to cold archive")
}

func (s *ColdArchiveStore) Close() error { return nil }
