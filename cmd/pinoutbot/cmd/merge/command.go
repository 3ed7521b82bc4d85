// Package merge provides the merge command, which folds the submission
// files of the dataset repository into the collection.
package merge

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/cmd/application"
	"github.com/webspiderteam/pinoutbot/internal/cmd/cmdutil"
	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
)

// NewCommand creates the merge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.SyncFlags

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge submission files into the collection",
		Args:    cobra.NoArgs,
		Long: `Merge reads every submissions/pinout_*.json file in name order and
appends the records that are not already in the collection.

The command will:
• Pull the dataset repository
• Append new records, skipping exact structural duplicates
• Rewrite the collection file and commit it
• Delete the consumed submission files and commit the removal
• Push

A malformed submission aborts the run before anything is written,
unless --skip-invalid is given.`,
		Example: `  pinoutbot merge                 # Merge, commit and push
  pinoutbot merge --dry-run       # Show what would be added
  pinoutbot merge --no-git        # Work on the files only
  pinoutbot merge --no-push       # Commit locally`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = cmdutil.AddSyncFlags(cmd, true)

	return cmd
}

// Execute merges the local submissions and prints the result to w.
func Execute(ctx context.Context, app application.Application, flags *cmdutil.SyncFlags, w io.Writer) error {
	var opts []pinoutbot.Option
	if flags.NoGit {
		opts = append(opts, pinoutbot.WithGit(nil))
	}

	client, err := app.Client(opts...)
	if err != nil {
		return err
	}

	result, err := client.Sync(ctx, app.LocalSource(), flags.Options()...)
	if err != nil {
		return err
	}
	app.Logger().Info().Msg(result.Summary())

	return output.Print(w, output.Format(app.OutputFormat()), result, func(wide bool) output.Data {
		return output.SyncResultToTableData(result, wide)
	})
}
