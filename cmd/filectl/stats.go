package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chunkflow/fileproc"
)

// newStatsCommand prints the human-readable job summary, grounded on the
// teacher's benchmark dump-to-stdout commands.
func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <job-id>",
		Short: "Print a job's progress as a human-readable summary.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, closer, err := newControl()
			if err != nil {
				return err
			}
			defer closer()

			status, err := ctl.GetProgress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), fileproc.FormatJobSummary(status))
			return nil
		},
	}
}
