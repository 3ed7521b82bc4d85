package hosting

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

const (
	serviceName = "github"
	perPage     = 100
)

// GitHub implements Platform on the GitHub REST API.
type GitHub struct {
	client *github.Client
	owner  string
	name   string
}

var _ Platform = (*GitHub)(nil)

// GitHubOption configures a GitHub platform.
type GitHubOption func(*github.Client) error

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(baseURL string) GitHubOption {
	return func(c *github.Client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return errors.NewValidationError("base_url", baseURL, err.Error())
		}
		c.BaseURL = u
		return nil
	}
}

// NewGitHub creates a GitHub platform for repository (owner/name)
// authenticated with token.
func NewGitHub(token, repository string, httpClient *http.Client, opts ...GitHubOption) (*GitHub, error) {
	if token == "" {
		return nil, errors.ErrTokenRequired
	}
	owner, name, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(httpClient).WithAuthToken(token)
	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}
	return &GitHub{client: client, owner: owner, name: name}, nil
}

// Repository returns owner/name.
func (g *GitHub) Repository() string {
	return g.owner + "/" + g.name
}

// ListOpenPullRequests returns all open pull requests, oldest first.
func (g *GitHub) ListOpenPullRequests(ctx context.Context) ([]PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var out []PullRequest
	for {
		prs, resp, err := g.client.PullRequests.List(ctx, g.owner, g.name, opts)
		if err != nil {
			return nil, g.apiError("list pull requests", resp, err)
		}
		for _, pr := range prs {
			out = append(out, PullRequest{
				Number:    pr.GetNumber(),
				Title:     pr.GetTitle(),
				Branch:    pr.GetHead().GetRef(),
				HeadRepo:  pr.GetHead().GetRepo().GetFullName(),
				CreatedAt: pr.GetCreatedAt().Time,
			})
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListFiles returns every file changed by pull request number.
func (g *GitHub) ListFiles(ctx context.Context, number int) ([]ChangedFile, error) {
	opts := &github.ListOptions{PerPage: perPage}

	var out []ChangedFile
	for {
		files, resp, err := g.client.PullRequests.ListFiles(ctx, g.owner, g.name, number, opts)
		if err != nil {
			return nil, g.apiError("list pull request files", resp, err)
		}
		for _, f := range files {
			out = append(out, ChangedFile{Path: f.GetFilename(), Status: f.GetStatus()})
		}
		if resp == nil || resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// Merge merges pull request number.
func (g *GitHub) Merge(ctx context.Context, number int, message string) error {
	result, resp, err := g.client.PullRequests.Merge(ctx, g.owner, g.name, number, message, nil)
	if err != nil {
		return g.apiError("merge pull request", resp, err)
	}
	if !result.GetMerged() {
		return &errors.APIError{
			Service:  serviceName,
			Message:  "pull request not merged: " + result.GetMessage(),
			Endpoint: g.Repository(),
		}
	}
	return nil
}

// DeleteBranch deletes refs/heads/<branch>.
func (g *GitHub) DeleteBranch(ctx context.Context, branch string) error {
	resp, err := g.client.Git.DeleteRef(ctx, g.owner, g.name, "heads/"+branch)
	if err != nil {
		return g.apiError("delete branch", resp, err)
	}
	return nil
}

func (g *GitHub) apiError(operation string, resp *github.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	return &errors.APIError{
		Service:    serviceName,
		StatusCode: status,
		Message:    operation + ": " + err.Error(),
		Endpoint:   g.Repository(),
		Err:        err,
	}
}
