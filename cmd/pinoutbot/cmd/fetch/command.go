// Package fetch provides the fetch command, which merges submissions
// served by the hosted submissions API.
package fetch

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/cmd/application"
	"github.com/webspiderteam/pinoutbot/internal/cmd/cmdutil"
	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
)

// Flags holds the fetch command flags.
type Flags struct {
	*cmdutil.SyncFlags
	URL string
}

// NewCommand creates the fetch command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "fetch",
		GroupID: "core",
		Short:   "Merge submissions from the submissions API",
		Args:    cobra.NoArgs,
		Long: `Fetch downloads the pending submissions from the submissions API and
appends the records that are not already in the collection, in the
order the API returns them.

The API keeps its own submissions; nothing is deleted remotely. A
failed request aborts the run before anything is written.`,
		Example: `  pinoutbot fetch
  pinoutbot fetch --dry-run
  pinoutbot fetch --url http://localhost:8080/list-submissions-files`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	}

	flags.SyncFlags = cmdutil.AddSyncFlags(cmd, true)
	cmd.Flags().StringVar(&flags.URL, "url", "", "submissions API endpoint (default from config)")

	return cmd
}

// Execute merges the API submissions and prints the result to w.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	var opts []pinoutbot.Option
	if flags.NoGit {
		opts = append(opts, pinoutbot.WithGit(nil))
	}

	client, err := app.Client(opts...)
	if err != nil {
		return err
	}

	result, err := client.Sync(ctx, app.RemoteSource(flags.URL), flags.Options()...)
	if err != nil {
		return err
	}
	app.Logger().Info().Msg(result.Summary())

	return output.Print(w, output.Format(app.OutputFormat()), result, func(wide bool) output.Data {
		return output.SyncResultToTableData(result, wide)
	})
}
