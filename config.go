package fileproc

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Default values for the configurable options enumerated in the
// configuration surface. FileProcessingRequest.WithDefaults fills BatchSize,
// BoundaryScanWindowBytes, AnalysisSampleBytes, ChunkSizeBytes and
// MaxParallelChunks when they are zero; it does not touch the two boolean
// options, whose defaults are applied by the filectl submit flags.
const (
	DefaultChunkSizeBytes          int64 = 100 * 1024 * 1024
	DefaultMaxParallelChunks             = 10
	DefaultEnableDeduplication           = true
	DefaultReprocessFailures             = true
	DefaultBatchSize                     = 1000
	DefaultBoundaryScanWindowBytes        = 1024
	DefaultAnalysisSampleBytes      int64 = 1024 * 1024

	// ProgressUpdateBatchInterval is how often, in batches, ChunkWorkflow
	// persists an intermediate progress snapshot while processing a chunk
	// (every 10*BatchSize rows), plus unconditionally on the final batch.
	ProgressUpdateBatchInterval = 10
)

// Retry profile timing, see the Chunk Workflow's two activity profiles.
const (
	LongStartToCloseTimeout = 2 * time.Hour
	LongInitialInterval     = 30 * time.Second
	LongMaxInterval         = 10 * time.Minute
	LongBackoffCoefficient  = 2.0
	LongMaxAttempts         = 3

	ShortStartToCloseTimeout = 5 * time.Minute
	ShortInitialInterval     = 5 * time.Second
	ShortMaxInterval         = 2 * time.Minute
	ShortBackoffCoefficient  = 1.5
	ShortMaxAttempts         = 5
)

// Job-level timeouts, see the concurrency & resource model.
const (
	JobExecutionTimeout = 24 * time.Hour
	JobRunTimeout       = 12 * time.Hour
)

// DefaultJobStatusCacheTTL bounds how long the worker's JobStatusCache
// serves a JobStore read without re-checking badger.
const DefaultJobStatusCacheTTL = 30 * time.Second

// WithDefaults returns a copy of the request with zero-valued optional
// fields filled in from the package defaults.
func (r FileProcessingRequest) WithDefaults() FileProcessingRequest {
	if r.BatchSize == 0 {
		r.BatchSize = DefaultBatchSize
	}
	if r.BoundaryScanWindowBytes == 0 {
		r.BoundaryScanWindowBytes = DefaultBoundaryScanWindowBytes
	}
	if r.AnalysisSampleBytes == 0 {
		r.AnalysisSampleBytes = DefaultAnalysisSampleBytes
	}
	if r.ChunkSizeBytes == 0 {
		r.ChunkSizeBytes = DefaultChunkSizeBytes
	}
	if r.MaxParallelChunks == 0 {
		r.MaxParallelChunks = DefaultMaxParallelChunks
	}
	return r
}

// S3Creds carries access credentials for one S3-compatible endpoint, keyed
// by scheme+host in Config.S3Credentials.
type S3Creds struct {
	AccessKey string `json:"access-key,omitempty"`
	SecretKey string `json:"secret-key,omitempty"`
	Region    string `json:"region,omitempty"`
}

// GCSCreds carries a service-account credentials file path for GCS access.
type GCSCreds struct {
	CredentialsFile string `json:"credentials-file,omitempty"`
}

// Config is the process-wide configuration for both the worker daemon and
// the control CLI, loaded once from a JSON file at startup with environment
// variables taking precedence over file values for credentials.
type Config struct {
	TemporalHostPort  string             `json:"temporal-host-port"`
	TemporalNamespace string             `json:"temporal-namespace"`
	TaskQueue         string             `json:"task-queue"`

	BadgerDir string `json:"badger-dir"`

	ColdArchiveEndpoint string             `json:"cold-archive-endpoint"`
	ColdArchiveBucket   string             `json:"cold-archive-bucket"`
	S3Credentials       map[string]S3Creds `json:"s3-credentials"`
	GCSCredentials      GCSCreds           `json:"gcs-credentials"`

	EncryptionPassphrase string `json:"encryption-passphrase"`

	RateLimitPerSecond float64 `json:"rate-limit-per-second"`

	ColdArchiveThresholdRecords int `json:"cold-archive-threshold-records"`
}

// DefaultConfig mirrors the package-level option defaults for process
// configuration not already covered by FileProcessingRequest.
var DefaultConfig = Config{
	TemporalHostPort:            "localhost:7233",
	TemporalNamespace:           "default",
	TaskQueue:                   "fileproc-tasks",
	BadgerDir:                   "./fileproc-data",
	RateLimitPerSecond:          50,
	ColdArchiveThresholdRecords: 100000,
}

// LoadConfig reads a JSON config file, if present, and overlays it on
// DefaultConfig. A missing file is not an error. The FILEPROC_* environment
// variables override both the defaults and the file values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig
	if path != "" {
		f, err := os.Open(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, errors.Wrap(err, "opening config file")
		default:
			defer f.Close()
			if err := json.NewDecoder(f).Decode(&cfg); err != nil {
				return cfg, errors.Wrap(err, "decoding config file")
			}
		}
	}
	if v := os.Getenv("FILEPROC_TEMPORAL_HOST_PORT"); v != "" {
		cfg.TemporalHostPort = v
	}
	if v := os.Getenv("FILEPROC_ENCRYPTION_PASSPHRASE"); v != "" {
		cfg.EncryptionPassphrase = v
	}
	return cfg, nil
}
