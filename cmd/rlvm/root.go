package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flags every subcommand shares.
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "rlvm",
		Short:         "rlvm runs compiled RealLive scenario archives",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a TOML settings file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newRunCmd(flags))
	return root
}
