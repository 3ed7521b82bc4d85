// Package hosting auto-merges pull requests that do nothing but add one
// submission file, then deletes their head branches.
package hosting

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// PullRequest is an open pull request on the hosting platform.
type PullRequest struct {
	Number    int
	Title     string
	Branch    string // head branch name
	HeadRepo  string // owner/name of the head repository
	CreatedAt time.Time
}

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Path   string
	Status string // added, modified, removed, renamed
}

// StatusAdded is the file status of a newly created file.
const StatusAdded = "added"

// Platform is the narrow slice of a hosting API the auto-merger uses.
type Platform interface {
	// Repository returns the owner/name of the repository.
	Repository() string
	// ListOpenPullRequests returns open pull requests, oldest first.
	ListOpenPullRequests(ctx context.Context) ([]PullRequest, error)
	// ListFiles returns the files changed by a pull request.
	ListFiles(ctx context.Context, number int) ([]ChangedFile, error)
	// Merge merges a pull request with the given commit message.
	Merge(ctx context.Context, number int, message string) error
	// DeleteBranch deletes refs/heads/<branch>.
	DeleteBranch(ctx context.Context, branch string) error
}

// Eligible reports whether a pull request consists of exactly one newly
// added file directly or indirectly under submissionsPath.
func Eligible(files []ChangedFile, submissionsPath string) bool {
	if len(files) != 1 {
		return false
	}
	f := files[0]
	if f.Status != StatusAdded {
		return false
	}
	dir := path.Clean(filepath.ToSlash(submissionsPath))
	if dir == "." || dir == "/" {
		return false
	}
	return strings.HasPrefix(path.Clean(f.Path), dir+"/")
}

// SplitRepository splits owner/name.
func SplitRepository(repository string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", errors.NewValidationError("repository", repository, "expected owner/name")
	}
	return owner, name, nil
}
