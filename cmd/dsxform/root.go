package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath  string
	verbose     bool
	logFile     string
	environment string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "dsxform",
		Short:         "dsxform applies transforms to labeling datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", os.Getenv("DSXFORM_CONFIG"), "Path to the dsxform config file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file (the menu discards logs otherwise)")
	cmd.PersistentFlags().StringVar(&flags.environment, "env", "", "Override the environment: auto, desktop or web")

	cmd.AddCommand(newMenuCmd(flags))
	cmd.AddCommand(newActionsCmd(flags))
	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newPluginsCmd(flags))
	cmd.AddCommand(newRunsCmd(flags))
	cmd.AddCommand(newHistoryCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
