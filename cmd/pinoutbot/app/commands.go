package app

import (
	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot/cmd/pinoutbot/cmd/automerge"
	"github.com/webspiderteam/pinoutbot/cmd/pinoutbot/cmd/fetch"
	"github.com/webspiderteam/pinoutbot/cmd/pinoutbot/cmd/inspect"
	"github.com/webspiderteam/pinoutbot/cmd/pinoutbot/cmd/merge"
	"github.com/webspiderteam/pinoutbot/cmd/pinoutbot/cmd/run"
	"github.com/webspiderteam/pinoutbot/cmd/pinoutbot/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(run.NewCommand(a))
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(fetch.NewCommand(a))
	rootCmd.AddCommand(automerge.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(inspect.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}
