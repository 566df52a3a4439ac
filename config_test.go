package fileproc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileProcessingRequestWithDefaultsFillsZeroFields(t *testing.T) {
	req := FileProcessingRequest{JobID: "job-1", MaxParallelChunks: 3}
	got := req.WithDefaults()

	require.Equal(t, DefaultBatchSize, got.BatchSize)
	require.Equal(t, DefaultBoundaryScanWindowBytes, got.BoundaryScanWindowBytes)
	require.Equal(t, DefaultAnalysisSampleBytes, got.AnalysisSampleBytes)
	require.Equal(t, DefaultChunkSizeBytes, got.ChunkSizeBytes)
	require.Equal(t, 3, got.MaxParallelChunks)
}

func TestFileProcessingRequestWithDefaultsLeavesSetFieldsAlone(t *testing.T) {
	req := FileProcessingRequest{
		BatchSize:               7,
		BoundaryScanWindowBytes: 8,
		AnalysisSampleBytes:     9,
		ChunkSizeBytes:          10,
		MaxParallelChunks:       11,
	}
	got := req.WithDefaults()
	require.Equal(t, req, got)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, cfg)
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, cfg)
}

func TestLoadConfigOverlaysFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"temporal-host-port": "temporal.internal:7233",
		"task-queue": "custom-tasks",
		"cold-archive-bucket": "archive-bucket"
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "temporal.internal:7233", cfg.TemporalHostPort)
	require.Equal(t, "custom-tasks", cfg.TaskQueue)
	require.Equal(t, "archive-bucket", cfg.ColdArchiveBucket)
	require.Equal(t, DefaultConfig.TemporalNamespace, cfg.TemporalNamespace)
}

func TestLoadConfigEnvOverridesFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"temporal-host-port": "from-file:7233"}`), 0o644))

	t.Setenv("FILEPROC_TEMPORAL_HOST_PORT", "from-env:7233")
	t.Setenv("FILEPROC_ENCRYPTION_PASSPHRASE", "from-env-passphrase")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "from-env:7233", cfg.TemporalHostPort)
	require.Equal(t, "from-env-passphrase", cfg.EncryptionPassphrase)
}
