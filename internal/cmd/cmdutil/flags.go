// Package cmdutil provides shared flags for pinoutbot commands.
package cmdutil

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/webspiderteam/pinoutbot/pkg/sync"
)

// SyncFlags holds the flags of every command that merges submissions.
type SyncFlags struct {
	DryRun      bool
	SkipInvalid bool
	NoPush      bool
	NoGit       bool
	Timeout     time.Duration
}

// AddSyncFlags adds the merge flags to a command. Commands whose source is
// not a git working tree pass withGit false and get no git flags.
func AddSyncFlags(cmd *cobra.Command, withGit bool) *SyncFlags {
	flags := &SyncFlags{}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Report what would be merged without writing, committing or deleting anything")
	cmd.Flags().BoolVar(&flags.SkipInvalid, "skip-invalid", false,
		"Skip malformed submissions instead of aborting the run")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0,
		"Abort the run after this duration (0 disables)")
	if withGit {
		cmd.Flags().BoolVar(&flags.NoGit, "no-git", false,
			"Do not pull, commit or push")
		cmd.Flags().BoolVar(&flags.NoPush, "no-push", false,
			"Commit but do not push")
	}

	return flags
}

// Options converts the flags to sync options.
func (f *SyncFlags) Options() []sync.Option {
	return []sync.Option{
		sync.WithDryRun(f.DryRun),
		sync.WithSkipInvalid(f.SkipInvalid),
		sync.WithNoPush(f.NoPush),
		sync.WithTimeout(f.Timeout),
	}
}
