package cmd

import (
	"github.com/spf13/cobra"
	"sonyavr/internal/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sonyavr",
	Short: "sonyavr - control Sony network audio receivers",
	Long: `sonyavr is a command-line client for Sony AVR/SRS speakers that expose
the JSON control API. It can query device state, switch inputs, control
volume and power, and provides an interactive TUI remote.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetSilentMode(false)
			logger.SetLevel("debug")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(avrCmd)
	rootCmd.AddCommand(cliCmd)
}
