package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newProgressCommand queries the job workflow for a freshly recomputed
// aggregate, forcing the workflow to re-walk its chunk results rather than
// returning whatever it last had cached for status.
func newProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <job-id>",
		Short: "Print a job's freshly recomputed progress as JSON.",
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
			b, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
