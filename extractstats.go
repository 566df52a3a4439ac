package fileproc

import "sync/atomic"

// ReprocessStats holds live counters for an in-flight reprocess pass,
// recorded as the activity's heartbeat details while the pass runs.
type ReprocessStats struct {
	RecordsTotal      int64  `json:"records-total"`
	RecordsSucceeded  uint64 `json:"records-succeeded"`
	RecordsStillFailed uint64 `json:"records-still-failed"`
	BytesRead         uint64 `json:"bytes-read"`
}

func (s *ReprocessStats) incSucceeded() {
	atomic.AddUint64(&s.RecordsSucceeded, 1)
}

func (s *ReprocessStats) incStillFailed() {
	atomic.AddUint64(&s.RecordsStillFailed, 1)
}

func (s *ReprocessStats) addBytesRead(n uint64) {
	atomic.AddUint64(&s.BytesRead, n)
}
