package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCommand queries the job workflow's last-known JobStatus.
func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Print a job's current status as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, closer, err := newControl()
			if err != nil {
				return err
			}
			defer closer()

			status, err := ctl.GetStatus(cmd.Context(), args[0])
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
