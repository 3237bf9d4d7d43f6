package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the vitals command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "vitals",
		Short: "Personal health tracker: BMI, calorie targets and a food log",
		Long: `vitals tracks body measurements, estimates a daily calorie target and
keeps a log of what you ate, using Open Food Facts for nutrition data.`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newUserCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func Execute() error {
	return NewRootCommand().Execute()
}
