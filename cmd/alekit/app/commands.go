package app

import (
	"github.com/spf13/cobra"

	appendcmd "github.com/agentstation/alekit/cmd/alekit/cmd/append"
	"github.com/agentstation/alekit/cmd/alekit/cmd/batch"
	"github.com/agentstation/alekit/cmd/alekit/cmd/dailies"
	"github.com/agentstation/alekit/cmd/alekit/cmd/export"
	"github.com/agentstation/alekit/cmd/alekit/cmd/merge"
	"github.com/agentstation/alekit/cmd/alekit/cmd/presets"
	"github.com/agentstation/alekit/cmd/alekit/cmd/run"
	"github.com/agentstation/alekit/cmd/alekit/cmd/show"
	"github.com/agentstation/alekit/cmd/alekit/cmd/validate"
	"github.com/agentstation/alekit/cmd/alekit/cmd/watch"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(show.NewCommand(a))
	rootCmd.AddCommand(run.NewCommand(a))
	rootCmd.AddCommand(appendcmd.NewCommand(a))
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Batch commands
	rootCmd.AddCommand(batch.NewCommand(a))
	rootCmd.AddCommand(dailies.NewCommand(a))
	rootCmd.AddCommand(watch.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(validate.NewCommand(a))
	rootCmd.AddCommand(presets.NewCommand(a))
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		GroupID: "management",
		Short:   "Show version information",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("alekit %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
