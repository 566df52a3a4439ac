package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chunkflow/fileproc"
)

var cfgFile string
var verbose bool

// newRootCommand builds the fileprocd cobra tree. Grounded on
// cmd/desync/root.go's persistent --config/--verbose flag pattern.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fileprocd",
		Short: "Worker daemon for the durable row-range file processing engine.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				fileproc.Log.SetLevel(logrus.DebugLevel)
				fileproc.Log.SetOutput(cmd.ErrOrStderr())
			}
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON)")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newConfigCommand())
	return cmd
}
