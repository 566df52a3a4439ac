package main

import (
	"github.com/spf13/cobra"
)

// newCancelCommand signals the job workflow to stop scheduling new chunks
// and transition to CANCELLED at its next suspension point.
func newCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a running or paused job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, closer, err := newControl()
			if err != nil {
				return err
			}
			defer closer()
			return ctl.Cancel(cmd.Context(), args[0])
		},
	}
}
