// Package sync provides options and results for merging a batch of
// submissions into the pinout collection.
package sync

import (
	"time"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// Options controls one Client.Sync run.
type Options struct {
	DryRun      bool          // Report what would be added without writing, committing or deleting
	SkipInvalid bool          // Skip malformed submissions instead of aborting
	NoPush      bool          // Commit locally but do not push
	Timeout     time.Duration // Timeout for the entire sync operation
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		DryRun:      false,
		SkipInvalid: false,
		NoPush:      false,
		Timeout:     0,
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	return nil
}

// SourceOptions converts sync options to source fetch options.
func (s *Options) SourceOptions() []sources.Option {
	var sourceOpts []sources.Option
	if s.SkipInvalid {
		sourceOpts = append(sourceOpts, sources.WithSkipInvalid(true))
	}
	return sourceOpts
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithSkipInvalid configures whether malformed submissions are skipped.
func WithSkipInvalid(skip bool) Option {
	return func(opts *Options) {
		opts.SkipInvalid = skip
	}
}

// WithNoPush configures whether commits stay local.
func WithNoPush(noPush bool) Option {
	return func(opts *Options) {
		opts.NoPush = noPush
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}
