package pinoutbot

import (
	"context"

	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
	"github.com/webspiderteam/pinoutbot/pkg/sync"
)

// RunResult is the outcome of the daily pipeline.
type RunResult struct {
	Sync      *sync.Result    `json:"sync" yaml:"sync"`
	AutoMerge *hosting.Report `json:"auto_merge" yaml:"auto_merge"`
}

// AutoMerge merges eligible pull requests. Without a configured
// auto-merger the pass is reported as skipped.
func (c *Client) AutoMerge(ctx context.Context) (*hosting.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, c.logger)
	}
	ctx = logging.WithOperation(ctx, "automerge")

	m := c.automerger
	if m == nil {
		m = hosting.NewAutoMerger(nil)
	}
	return m.Run(ctx)
}

// Run is the daily pipeline: merge the pending submission files of src
// first, then auto-merge single-submission pull requests. Files arriving
// through merged pull requests are picked up by the next run.
func (c *Client) Run(ctx context.Context, src sources.Source, opts ...sync.Option) (*RunResult, error) {
	res := &RunResult{}

	syncResult, err := c.Sync(ctx, src, opts...)
	if err != nil {
		return res, err
	}
	res.Sync = syncResult

	report, err := c.AutoMerge(ctx)
	if err != nil {
		return res, err
	}
	res.AutoMerge = report
	return res, nil
}
