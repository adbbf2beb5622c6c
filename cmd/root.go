package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "concentration",
	Short: "A memory card game for the terminal",
	Long: `Concentration is the memory card game played in the terminal.
Every card of a card set is dealt twice and shuffled face down. Find all the
pairs before the moves or the time run out.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
