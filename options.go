package pinoutbot

import (
	"github.com/rs/zerolog"

	"github.com/webspiderteam/pinoutbot/internal/git"
	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*Client) error

// WithCollectionPath sets the collection file.
func WithCollectionPath(path string) Option {
	return func(c *Client) error {
		if path == "" {
			return errors.NewValidationError("collection_path", path, "must not be empty")
		}
		c.collectionPath = path
		return nil
	}
}

// WithGit enables pulling before and committing after a sync.
func WithGit(runner git.Runner) Option {
	return func(c *Client) error {
		c.git = runner
		return nil
	}
}

// WithGitIdentity sets the author of automated commits. Empty values keep
// whatever identity the repository already has.
func WithGitIdentity(name, email string) Option {
	return func(c *Client) error {
		c.gitName = name
		c.gitEmail = email
		return nil
	}
}

// WithAutoMerger sets the pull request auto-merger used by AutoMerge and Run.
func WithAutoMerger(m *hosting.AutoMerger) Option {
	return func(c *Client) error {
		c.automerger = m
		return nil
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}
