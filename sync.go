package pinoutbot

import (
	"context"
	"path/filepath"

	"github.com/webspiderteam/pinoutbot/internal/dataset"
	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
	"github.com/webspiderteam/pinoutbot/pkg/records"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
	"github.com/webspiderteam/pinoutbot/pkg/sync"
)

// Sync merges the pending submissions of src into the collection.
//
// The run is: pull, load the collection, fetch candidates, merge, write the
// collection if anything was added, commit it, release the consumed
// submissions through src.Commit, commit that release, push. Submissions
// are released only after the collection holding them is on disk, so a
// failed run never loses a record. A dry run performs no pull, write,
// release or commit.
func (c *Client) Sync(ctx context.Context, src sources.Source, opts ...sync.Option) (*sync.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()

	if logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, c.logger)
	}
	ctx = logging.WithSource(ctx, src.ID().String())
	logger := logging.FromContext(ctx)

	result := &sync.Result{
		Source:         src.ID(),
		DryRun:         options.DryRun,
		CollectionPath: c.collectionPath,
	}

	// Step 1: bring the working tree up to date
	if c.git != nil && !options.DryRun {
		logger.Debug().Msg("Pulling repository")
		if err := c.git.Pull(ctx); err != nil {
			return nil, err
		}
	}

	// Step 2: load the collection and the candidates
	existing, err := dataset.Load(c.collectionPath)
	if err != nil {
		return nil, err
	}
	batch, err := src.Fetch(ctx, options.SourceOptions()...)
	if err != nil {
		return nil, err
	}

	// Step 3: merge
	merged := records.Merge(existing, batch.Records())
	c.report(ctx, batch, merged.Duplicates)

	result.Candidates = batch.Len()
	result.Added = merged.Added
	result.Skipped = merged.Skipped
	result.AddedRecords = merged.AddedRecords
	result.Rejected = batch.Rejected
	result.CollectionSize = merged.Collection.Len()

	if options.DryRun {
		logger.Info().
			Bool("dry_run", true).
			Int("added", merged.Added).
			Int("skipped", merged.Skipped).
			Msg("Dry run completed - no changes applied")
		return result, nil
	}

	// Step 4: persist and commit the collection
	if merged.HasChanges() {
		if err := dataset.Save(c.collectionPath, merged.Collection); err != nil {
			return nil, err
		}
		result.Written = true
		logger.Info().
			Int("added", merged.Added).
			Str("path", c.collectionPath).
			Msgf("Added %d new pinouts. Saved to %s.", merged.Added, c.collectionPath)

		committed, err := c.commit(ctx, constants.MergeCommitMessage, c.collectionPath)
		if err != nil {
			return result, err
		}
		result.Committed = result.Committed || committed
	} else {
		logger.Info().Msg("No new pinouts to merge.")
	}

	// Step 5: release consumed submissions, strictly after the write
	if batch.Len() > 0 {
		if err := src.Commit(ctx, batch); err != nil {
			return result, err
		}
		result.Released = true

		if tracked, ok := src.(sources.Tracked); ok {
			committed, err := c.commit(ctx, constants.CleanupCommitMessage, tracked.TrackedPaths()...)
			if err != nil {
				return result, err
			}
			result.Committed = result.Committed || committed
		}
	}

	// Step 6: publish
	if result.Committed && !options.NoPush {
		if err := c.git.Push(ctx); err != nil {
			return result, err
		}
		result.Pushed = true
		logger.Info().Msgf("Total new pinouts merged and cleaned up: %d", merged.Added)
	}

	return result, nil
}

// report logs each candidate outcome and fires the registered hooks.
func (c *Client) report(ctx context.Context, batch *sources.Batch, duplicates []int) {
	logger := logging.FromContext(ctx)

	d := 0
	for i, cand := range batch.Candidates {
		if d < len(duplicates) && duplicates[d] == i {
			d++
			logger.Info().Str("origin", cand.Origin).Msgf("Duplicate (skipped): %s", cand.Origin)
			continue
		}
		logger.Info().Str("origin", cand.Origin).Msgf("Added: %s", cand.Origin)
	}
	c.trigger(batch, duplicates)
}

// commit stages paths and commits them with message when git is configured
// and the index changed. It reports whether a commit was created.
func (c *Client) commit(ctx context.Context, message string, paths ...string) (bool, error) {
	if c.git == nil {
		return false, nil
	}

	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return false, errors.WrapIO("resolve", p, err)
		}
		abs = append(abs, a)
	}

	if err := c.git.Add(ctx, abs...); err != nil {
		return false, err
	}
	staged, err := c.git.HasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !staged {
		return false, nil
	}

	if c.gitName != "" && c.gitEmail != "" {
		if err := c.git.ConfigIdentity(ctx, c.gitName, c.gitEmail); err != nil {
			return false, err
		}
	}
	if err := c.git.Commit(ctx, message); err != nil {
		return false, err
	}
	logging.FromContext(ctx).Info().Str("message", message).Msg("Committed changes")
	return true, nil
}
