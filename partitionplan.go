package fileproc

import "fmt"

// PartitionPlan is the cached result of analyzing a file: its sizing
// summary and a Boundaries list, keyed by
// (Directory, Filename, ChunkSizeBytes) per the request's stated invariant
// that the tuple fully determines the plan for a given file-bytes
// snapshot. Conceptually grounded on the teacher's Index/IndexChunk table,
// persisted as msgpack instead of the casync binary index format.
// AnalyzeFile fills Analysis only; chunk boundaries are computed per chunk
// by CalculateChunkBoundaries and are not written into the plan.
type PartitionPlan struct {
	Directory      string            `msgpack:"directory"`
	Filename       string            `msgpack:"filename"`
	ChunkSizeBytes int64             `msgpack:"chunkSizeBytes"`
	Analysis       FileAnalysisResult `msgpack:"analysis"`
	Boundaries     []ChunkBoundaries `msgpack:"boundaries"`
}

// PlanKey returns the cache key for a (directory, filename, chunkSizeBytes)
// tuple.
func PlanKey(directory, filename string, chunkSizeBytes int64) string {
	return fmt.Sprintf("%s\x00%s\x00%d", directory, filename, chunkSizeBytes)
}
