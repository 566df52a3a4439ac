package main

import (
	"github.com/spf13/cobra"
)

// newResumeCommand signals the job workflow to resume scheduling of new
// chunks after a pause.
func newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <job-id>",
		Short: "Resume a paused job.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, closer, err := newControl()
			if err != nil {
				return err
			}
			defer closer()
			return ctl.Resume(cmd.Context(), args[0])
		},
	}
}
