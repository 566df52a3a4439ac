package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chunkflow/fileproc"
)

var cfgFile string
var verbose bool

// newRootCommand builds the filectl cobra tree. Grounded on
// cmd/desync/root.go's persistent --config/--verbose flag pattern, one
// subcommand per job-control operation the way cmd/desync splits one file
// per verb (cat.go, chop.go, extract.go, ...).
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filectl",
		Short: "Control plane for the durable row-range file processing engine.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				fileproc.Log.SetLevel(logrus.DebugLevel)
				fileproc.Log.SetOutput(cmd.ErrOrStderr())
			}
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")
	cmd.AddCommand(newSubmitCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newProgressCommand())
	cmd.AddCommand(newPauseCommand())
	cmd.AddCommand(newResumeCommand())
	cmd.AddCommand(newCancelCommand())
	cmd.AddCommand(newStatsCommand())
	return cmd
}
