package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// Execute runs the pinoutbot CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pinoutbot",
		Short:   "Merge community pinout submissions into the dataset",
		Version: a.version,
		Long: `pinoutbot maintains the laptop battery pinout dataset.

It merges community-submitted pinout records into one JSON collection,
dropping exact structural duplicates, from three places:

  • the submissions/ directory of the dataset repository (merge)
  • the hosted submissions API (fetch)
  • pull requests that add a single submission file (automerge)

The run command performs the daily job: merge the submission files,
then auto-merge eligible pull requests.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	f := &a.flags
	rootCmd.PersistentFlags().StringVar(&f.ConfigFile, "config", "", "config file (default is $HOME/.pinoutbot.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&f.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&f.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&f.Format, "format", "o", "", "output format: table, json, yaml, wide")
	rootCmd.PersistentFlags().StringVar(&f.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().StringVarP(&f.RepoPath, "repo", "C", a.config.RepoPath, "dataset repository working tree")
	rootCmd.PersistentFlags().StringVar(&f.CollectionPath, "collection", a.config.CollectionPath, "collection file, relative to the repository")
	rootCmd.PersistentFlags().StringVar(&f.SubmissionsPath, "submissions", a.config.SubmissionsPath, "submissions directory, relative to the repository")

	rootCmd.SetVersionTemplate("pinoutbot {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// when --config names a file, applies the flags and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if a.flags.ConfigFile != "" {
		config, err := LoadConfig(a.flags.ConfigFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	applyFlags(a.config, a.flags, func(name string) bool {
		return cmd.Flags().Changed(name)
	})

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}
	if cmd.Name() != "version" {
		if err := a.config.Validate(); err != nil {
			return err
		}
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitCode maps err to the process exit status: 0 on success, 2 for
// invalid configuration or input, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsValidationError(err):
		return 2
	default:
		return 1
	}
}

// ExitOnError prints err and exits with its ExitCode.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(ExitCode(err))
	}
}
