package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chunkflow/fileproc"
)

// newServeCommand starts the worker daemon: a Temporal worker polling
// cfg.TaskQueue and running JobWorkflow/ChunkWorkflow against the
// configured storage stack. Grounded on cmd/desync/server.go's long-running
// server command shape.
func newServeCommand() *cobra.Command {
	var localRoot string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the worker daemon.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := fileproc.LoadConfig(cfgFile)
			if err != nil {
				return errors.Wrap(err, "loading config")
			}

			store, err := fileproc.NewBadgerStore(cfg.BadgerDir)
			if err != nil {
				return errors.Wrap(err, "opening badger store")
			}
			defer store.Close()

			providers := map[string]fileproc.FileProvider{
				"file": fileproc.LocalFileProvider{Root: localRoot},
			}
			for locator, creds := range cfg.S3Credentials {
				p, err := fileproc.NewS3FileProvider(locator, creds.AccessKey, creds.SecretKey, true)
				if err != nil {
					return errors.Wrapf(err, "configuring s3 provider for %s", locator)
				}
				providers["s3"] = p
			}
			if cfg.GCSCredentials.CredentialsFile != "" {
				gcs, err := fileproc.NewGCSFileProvider(cmd.Context(), cfg.GCSCredentials.CredentialsFile)
				if err != nil {
					return errors.Wrap(err, "configuring gcs provider")
				}
				providers["gs"] = gcs
			}

			var fileProvider fileproc.FileProvider = fileproc.NewProviderRouter(providers)
			if cfg.RateLimitPerSecond > 0 {
				fileProvider = fileproc.NewRateLimitedProvider(fileProvider, cfg.RateLimitPerSecond, int(cfg.RateLimitPerSecond))
			}

			var failedRecords fileproc.FailedRecordStore = store
			if cfg.ColdArchiveBucket != "" {
				minioClient, err := minio.New(cfg.ColdArchiveEndpoint, &minio.Options{
					Creds:  credentials.NewEnvAWS(),
					Secure: true,
				})
				if err != nil {
					return errors.Wrap(err, "configuring cold archive client")
				}
				converters, err := fileproc.NewFailedRecordConverters(cfg.EncryptionPassphrase)
				if err != nil {
					return errors.Wrap(err, "configuring cold archive encryption")
				}
				failedRecords = fileproc.NewColdArchiveStore(minioClient, cfg.ColdArchiveBucket, converters)
			}

			dedup := fileproc.NewDedupQueue(fileproc.NewBadgerDedupIndex(store.DB()))
			jobStore := fileproc.NewJobStatusCache(store, fileproc.DefaultJobStatusCacheTTL)

			workerCfg := fileproc.WorkerConfig{
				Config:        cfg,
				Providers:     fileProvider,
				JobStore:      jobStore,
				ChunkProgress: store,
				FailedRecords: failedRecords,
				Plans:         store,
				Dedup:         dedup,
				RowProcessor:  fileproc.NewDefaultRowProcessor(),
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return fileproc.RunWorker(ctx, workerCfg)
		},
	}
	cmd.Flags().StringVar(&localRoot, "local-root", ".", "root directory for file:// locators")
	return cmd
}
