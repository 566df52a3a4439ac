package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkflow/fileproc"
)

// newSubmitCommand starts a new job, grounded on cmd/desync/make.go's
// "parse flags, build a request, hand it to the backing API" shape.
func newSubmitCommand() *cobra.Command {
	var (
		req              fileproc.FileProcessingRequest
		chunkSizeMB      int64
		disableDedup     bool
		disableReprocess bool
	)

	cmd := &cobra.Command{
		Use:   "submit <directory> <filename>",
		Short: "Submit a file for row-range processing.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Directory = args[0]
			req.Filename = args[1]
			if chunkSizeMB > 0 {
				req.ChunkSizeBytes = chunkSizeMB * 1024 * 1024
			}
			req.EnableDeduplication = !disableDedup
			req.ReprocessFailures = !disableReprocess

			ctl, closer, err := newControl()
			if err != nil {
				return err
			}
			defer closer()

			result, err := ctl.StartJob(cmd.Context(), req)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.JobID, "job-id", "", "job id (generated if omitted)")
	cmd.Flags().Int64Var(&chunkSizeMB, "chunk-size-mb", 0, "chunk size in MiB (default from server config)")
	cmd.Flags().IntVar(&req.MaxParallelChunks, "max-parallel-chunks", 0, "max chunks processed concurrently (default from server config)")
	cmd.Flags().BoolVar(&disableDedup, "no-dedup", false, "disable row-identity deduplication")
	cmd.Flags().BoolVar(&disableReprocess, "no-reprocess", false, "skip the end-of-job reprocess pass over failed rows")
	return cmd
}
