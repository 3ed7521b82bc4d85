// Package git runs the version-control steps of a merge run by shelling out
// to the git binary inside the dataset repository.
package git

import (
	"context"
	"os/exec"
	"strings"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// Runner is the set of git operations a merge run needs.
type Runner interface {
	Pull(ctx context.Context) error
	Add(ctx context.Context, paths ...string) error
	ConfigIdentity(ctx context.Context, name, email string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
	HasStagedChanges(ctx context.Context) (bool, error)
}

// Client executes git commands in RepoPath.
type Client struct {
	RepoPath string
	Binary   string
}

var _ Runner = (*Client)(nil)

// New creates a git client for the repository at repoPath.
func New(repoPath string) *Client {
	return &Client{
		RepoPath: repoPath,
		Binary:   "git",
	}
}

// IsRepository reports whether RepoPath is inside a git work tree.
func (c *Client) IsRepository(ctx context.Context) bool {
	out, err := c.run(ctx, "inspect repository", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// Pull fetches and integrates the upstream branch.
func (c *Client) Pull(ctx context.Context) error {
	_, err := c.run(ctx, "pull repository", "pull")
	return err
}

// Add stages paths, deletions included.
func (c *Client) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, paths...)
	_, err := c.run(ctx, "stage changes", args...)
	return err
}

// ConfigIdentity sets the repository-local commit author.
func (c *Client) ConfigIdentity(ctx context.Context, name, email string) error {
	if _, err := c.run(ctx, "configure identity", "config", "user.email", email); err != nil {
		return err
	}
	_, err := c.run(ctx, "configure identity", "config", "user.name", name)
	return err
}

// Commit records the staged changes.
func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit changes", "commit", "-m", message)
	return err
}

// Push publishes local commits to the upstream branch.
func (c *Client) Push(ctx context.Context) error {
	_, err := c.run(ctx, "push repository", "push")
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := c.run(ctx, "inspect index", "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

func (c *Client) run(ctx context.Context, operation string, args ...string) (string, error) {
	bin := c.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec // arguments are built by this package
	cmd.Dir = c.RepoPath

	output, err := cmd.CombinedOutput()
	if err != nil {
		pe := errors.NewProcessError(operation, "git "+args[0], strings.TrimSpace(string(output)), err)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			pe.ExitCode = exitErr.ExitCode()
		}
		return string(output), pe
	}
	return string(output), nil
}
