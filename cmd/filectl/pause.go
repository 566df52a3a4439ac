package main

import (
	"github.com/spf13/cobra"
)

// newPauseCommand signals the job workflow to suspend scheduling of new
// chunks at its next suspension point. In-flight chunks keep running.
func newPauseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <job-id>",
		Short: "Pause a running job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, closer, err := newControl()
			if err != nil {
				return err
			}
			defer closer()
			return ctl.Pause(cmd.Context(), args[0])
		},
	}
}
