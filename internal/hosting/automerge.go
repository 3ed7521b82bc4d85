package hosting

import (
	"context"
	"fmt"
	"strings"

	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
)

// Outcome is what happened to one pull request.
type Outcome string

// Pull request outcomes.
const (
	OutcomeMerged     Outcome = "merged"
	OutcomeWouldMerge Outcome = "would-merge"
	OutcomeIneligible Outcome = "ineligible"
	OutcomeFailed     Outcome = "failed"
)

// PullRequestResult records the handling of one pull request.
type PullRequestResult struct {
	Number        int     `json:"number" yaml:"number"`
	Title         string  `json:"title" yaml:"title"`
	Branch        string  `json:"branch" yaml:"branch"`
	Outcome       Outcome `json:"outcome" yaml:"outcome"`
	BranchDeleted bool    `json:"branch_deleted" yaml:"branch_deleted"`
	Error         string  `json:"error,omitempty" yaml:"error,omitempty"`
	Err           error   `json:"-" yaml:"-"`
}

// Report summarizes one auto-merge pass.
type Report struct {
	Repository   string              `json:"repository" yaml:"repository"`
	Skipped      bool                `json:"skipped" yaml:"skipped"`
	Reason       string              `json:"reason,omitempty" yaml:"reason,omitempty"`
	DryRun       bool                `json:"dry_run" yaml:"dry_run"`
	PullRequests []PullRequestResult `json:"pull_requests" yaml:"pull_requests"`
}

// Count returns the number of pull requests with outcome o.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, pr := range r.PullRequests {
		if pr.Outcome == o {
			n++
		}
	}
	return n
}

// Merged returns the number of merged pull requests.
func (r *Report) Merged() int {
	return r.Count(OutcomeMerged)
}

// Errors returns the per pull request failures, branch deletions included.
func (r *Report) Errors() []error {
	var errs []error
	for _, pr := range r.PullRequests {
		if pr.Err != nil {
			errs = append(errs, pr.Err)
		}
	}
	return errs
}

// Summary returns a human-readable summary of the report.
func (r *Report) Summary() string {
	if r.Skipped {
		return "Pull request auto-merge skipped: " + r.Reason
	}
	verb := "merged"
	n := r.Merged()
	if r.DryRun {
		verb = "eligible"
		n = r.Count(OutcomeWouldMerge)
	}
	parts := []string{fmt.Sprintf("%d of %d open pull requests %s", n, len(r.PullRequests), verb)}
	if failed := len(r.Errors()); failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failures", failed))
	}
	return strings.Join(parts, ", ")
}

// AutoMerger merges single-submission pull requests.
type AutoMerger struct {
	platform        Platform
	submissionsPath string
	message         string
	dryRun          bool
}

// Option configures an AutoMerger.
type Option func(*AutoMerger)

// WithSubmissionsPath sets the repository-relative submissions directory.
func WithSubmissionsPath(p string) Option {
	return func(m *AutoMerger) {
		m.submissionsPath = p
	}
}

// WithCommitMessage sets the merge commit message.
func WithCommitMessage(msg string) Option {
	return func(m *AutoMerger) {
		m.message = msg
	}
}

// WithDryRun reports eligible pull requests without merging them.
func WithDryRun(dryRun bool) Option {
	return func(m *AutoMerger) {
		m.dryRun = dryRun
	}
}

// NewAutoMerger creates an auto-merger. A nil platform means no hosting
// token was configured, and Run reports the pass as skipped.
func NewAutoMerger(platform Platform, opts ...Option) *AutoMerger {
	m := &AutoMerger{
		platform:        platform,
		submissionsPath: constants.DefaultSubmissionsPath,
		message:         constants.AutoMergeCommitMessage,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run inspects every open pull request in creation order. Failures on one
// pull request are recorded in the report and never stop the pass; only a
// failure to list pull requests is returned as an error.
func (m *AutoMerger) Run(ctx context.Context) (*Report, error) {
	logger := logging.FromContext(ctx)

	if m.platform == nil {
		logger.Info().Msg(constants.TokenEnvVar + " not set, skipping PR auto-merge")
		return &Report{Skipped: true, Reason: constants.TokenEnvVar + " not set", DryRun: m.dryRun}, nil
	}

	repo := m.platform.Repository()
	report := &Report{Repository: repo, DryRun: m.dryRun, PullRequests: []PullRequestResult{}}

	prs, err := m.platform.ListOpenPullRequests(ctx)
	if err != nil {
		return nil, err
	}

	for _, pr := range prs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.PullRequests = append(report.PullRequests, m.handle(ctx, repo, pr))
	}

	logger.Info().
		Str("repository", repo).
		Int("open", len(prs)).
		Int("merged", report.Merged()).
		Int("failed", len(report.Errors())).
		Bool("dry_run", m.dryRun).
		Msg("Pull request auto-merge finished")
	return report, nil
}

func (m *AutoMerger) handle(ctx context.Context, repo string, pr PullRequest) PullRequestResult {
	logger := logging.FromContext(logging.WithPullRequest(ctx, pr.Number))
	res := PullRequestResult{Number: pr.Number, Title: pr.Title, Branch: pr.Branch}

	fail := func(stage string, err error) PullRequestResult {
		merr := errors.NewMergeError(repo, pr.Number, pr.Branch, stage, err)
		logger.Error().Err(err).Str("stage", stage).Msgf("Failed to auto-merge or delete branch for PR #%d", pr.Number)
		res.Err = merr
		res.Error = merr.Error()
		return res
	}

	files, err := m.platform.ListFiles(ctx, pr.Number)
	if err != nil {
		res.Outcome = OutcomeFailed
		return fail("inspect", err)
	}
	if !Eligible(files, m.submissionsPath) {
		res.Outcome = OutcomeIneligible
		logger.Debug().Int("files", len(files)).Msg("Pull request not eligible for auto-merge")
		return res
	}

	if m.dryRun {
		res.Outcome = OutcomeWouldMerge
		logger.Info().Str("title", pr.Title).Msgf("Would auto-merge PR #%d", pr.Number)
		return res
	}

	if err := m.platform.Merge(ctx, pr.Number, m.message); err != nil {
		res.Outcome = OutcomeFailed
		return fail("merge", err)
	}
	res.Outcome = OutcomeMerged
	logger.Info().Str("title", pr.Title).Msgf("Auto-merged PR #%d", pr.Number)

	if pr.HeadRepo != "" && !strings.EqualFold(pr.HeadRepo, repo) {
		logger.Info().Str("head_repo", pr.HeadRepo).Msg("Head branch lives in a fork, not deleting")
		return res
	}
	if err := m.platform.DeleteBranch(ctx, pr.Branch); err != nil {
		return fail("delete-branch", err)
	}
	res.BranchDeleted = true
	logger.Info().Str("branch", pr.Branch).Msg("Deleted branch")
	return res
}
