// Package app provides the application context and dependency management
// for the pinoutbot CLI. It centralizes configuration, logging and the
// construction of clients, drivers and the auto-merger that commands use.
package app

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/cmd/application"
	"github.com/webspiderteam/pinoutbot/internal/cmd/output"
	"github.com/webspiderteam/pinoutbot/internal/git"
	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/internal/sources/local"
	"github.com/webspiderteam/pinoutbot/internal/sources/remote"
	"github.com/webspiderteam/pinoutbot/internal/transport"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// App represents the pinoutbot application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config
	flags  globalFlags

	// Logger
	logger *zerolog.Logger

	// HTTP client shared by the submissions API and hosting clients; nil
	// means a fresh client per call with the configured timeout
	httpClient *http.Client
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from .env files, the environment and the
// optional config file; flags are applied when a command runs.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format, or one detected from
// the terminal.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Client creates a pinoutbot client from the configuration. opts are
// applied last and override the configured values.
func (a *App) Client(opts ...pinoutbot.Option) (*pinoutbot.Client, error) {
	cfg := a.config

	base := []pinoutbot.Option{
		pinoutbot.WithCollectionPath(cfg.CollectionFile()),
		pinoutbot.WithGitIdentity(cfg.GitUserName, cfg.GitUserEmail),
		pinoutbot.WithLogger(a.logger),
	}
	if cfg.GitEnabled {
		base = append(base, pinoutbot.WithGit(git.New(cfg.RepoPath)))
	}

	merger, err := a.AutoMerger(false)
	if err != nil {
		return nil, err
	}
	base = append(base, pinoutbot.WithAutoMerger(merger))

	client, err := pinoutbot.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	return client, nil
}

// LocalSource returns the submissions directory driver.
func (a *App) LocalSource() sources.Source {
	return local.New(a.config.SubmissionsDir(), local.WithPrefix(a.config.SubmissionPrefix))
}

// RemoteSource returns the submissions API driver.
func (a *App) RemoteSource(url string) sources.Source {
	if url == "" {
		url = a.config.APIURL
	}

	opts := []transport.Option{
		transport.WithHTTPClient(a.httpClient),
		transport.WithUserAgent(transport.DefaultUserAgent + "/" + a.version),
	}
	if a.httpClient == nil && a.config.HTTPTimeout > 0 {
		opts = append(opts, transport.WithTimeout(a.config.HTTPTimeout))
	}

	var auth transport.Authenticator = &transport.NoAuth{}
	if a.config.APIToken != "" {
		auth = &transport.BearerAuth{}
		opts = append(opts, transport.WithToken(a.config.APIToken))
	}
	return remote.New(url, transport.New(auth, opts...))
}

// AutoMerger returns the pull request auto-merger for the configured
// repository. Without a hosting token the pass is reported as skipped.
func (a *App) AutoMerger(dryRun bool) (*hosting.AutoMerger, error) {
	cfg := a.config
	if !cfg.HasHostingToken() {
		return hosting.NewAutoMerger(nil, hosting.WithDryRun(dryRun)), nil
	}

	var ghOpts []hosting.GitHubOption
	if cfg.GitHubAPIURL != "" {
		ghOpts = append(ghOpts, hosting.WithBaseURL(cfg.GitHubAPIURL))
	}

	hc := a.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	platform, err := hosting.NewGitHub(cfg.HostingToken, cfg.Repository, hc, ghOpts...)
	if err != nil {
		return nil, errors.WrapResource("create", "hosting client", cfg.Repository, err)
	}

	return hosting.NewAutoMerger(platform,
		hosting.WithSubmissionsPath(cfg.RepoRelativeSubmissions()),
		hosting.WithDryRun(dryRun),
	), nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for remote calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) error {
		a.httpClient = hc
		return nil
	}
}
