// Package run provides the run command, the scheduled daily job.
package run

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/cmd/application"
	"github.com/webspiderteam/pinoutbot/internal/cmd/cmdutil"
	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
)

// NewCommand creates the run command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.SyncFlags

	cmd := &cobra.Command{
		Use:     "run",
		GroupID: "core",
		Short:   "Run the daily job: merge submission files, then auto-merge pull requests",
		Args:    cobra.NoArgs,
		Long: `Run performs the scheduled job in a fixed order:

1. merge   - fold submissions/pinout_*.json into the collection, commit, push
2. automerge - merge pull requests that add a single submission file

Files that arrive through pull requests merged in step 2 are picked up by
the next run. A failure in step 1 stops the job before step 2.`,
		Example: `  pinoutbot run
  pinoutbot run --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags = cmdutil.AddSyncFlags(cmd, true)

	return cmd
}

// Execute runs the daily job and prints both results to w.
func Execute(ctx context.Context, app application.Application, flags *cmdutil.SyncFlags, w io.Writer) error {
	merger, err := app.AutoMerger(flags.DryRun)
	if err != nil {
		return err
	}

	opts := []pinoutbot.Option{pinoutbot.WithAutoMerger(merger)}
	if flags.NoGit {
		opts = append(opts, pinoutbot.WithGit(nil))
	}
	client, err := app.Client(opts...)
	if err != nil {
		return err
	}

	result, err := client.Run(ctx, app.LocalSource(), flags.Options()...)
	if err != nil {
		return err
	}
	app.Logger().Info().Msg(result.Sync.Summary())
	app.Logger().Info().Msg(result.AutoMerge.Summary())

	format := output.Format(app.OutputFormat())
	switch format {
	case output.FormatTable, output.FormatWide, "":
		wide := format == output.FormatWide
		formatter := output.NewFormatter(format)
		if err := formatter.Format(w, output.SyncResultToTableData(result.Sync, wide)); err != nil {
			return err
		}
		return formatter.Format(w, output.AutoMergeReportToTableData(result.AutoMerge, wide))
	default:
		return output.NewFormatter(format).Format(w, result)
	}
}
