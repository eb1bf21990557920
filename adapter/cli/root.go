// Package cli implements the circadia command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the circadia root command.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "circadia",
		Short: "Generate personalized daily schedules",
		Long: `Circadia generates a full 24-hour daily schedule from a user's
chronotype, sleep needs, tasks, fixed events, and lifestyle preferences.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newGenerateCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newVersionCommand(version))
	return root
}
