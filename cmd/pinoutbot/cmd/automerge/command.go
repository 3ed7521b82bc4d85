// Package automerge provides the automerge command.
package automerge

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/cmd/application"
	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
)

// NewCommand creates the automerge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "automerge",
		GroupID: "core",
		Short:   "Merge pull requests that add a single submission file",
		Args:    cobra.NoArgs,
		Long: `Automerge lists the open pull requests of the dataset repository,
oldest first, and merges every one that adds exactly one new file under
the submissions directory. The head branch is deleted after merging,
unless it lives in a fork.

A pull request that fails to merge is reported and the remaining ones are
still processed. Without GITHUB_TOKEN the pass is skipped.`,
		Example: `  pinoutbot automerge
  pinoutbot automerge --dry-run -o wide`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, dryRun, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list eligible pull requests without merging them")

	return cmd
}

// Execute runs one auto-merge pass and prints the report to w.
func Execute(ctx context.Context, app application.Application, dryRun bool, w io.Writer) error {
	merger, err := app.AutoMerger(dryRun)
	if err != nil {
		return err
	}
	client, err := app.Client(pinoutbot.WithAutoMerger(merger))
	if err != nil {
		return err
	}

	report, err := client.AutoMerge(ctx)
	if err != nil {
		return err
	}
	app.Logger().Info().Msg(report.Summary())

	return output.Print(w, output.Format(app.OutputFormat()), report, func(wide bool) output.Data {
		return output.AutoMergeReportToTableData(report, wide)
	})
}
