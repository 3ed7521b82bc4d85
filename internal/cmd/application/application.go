// Package application defines the application context shared by all
// commands. Commands accept the Application interface rather than the
// concrete app type so tests can inject a Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/config"
	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// Application is what commands need from the running app.
type Application interface {
	// Config returns the loaded configuration.
	Config() *config.Config

	// Client returns a pinoutbot client configured from Config. opts are
	// applied after the configured ones, so they win.
	Client(opts ...pinoutbot.Option) (*pinoutbot.Client, error)

	// LocalSource returns the submissions directory driver.
	LocalSource() sources.Source

	// RemoteSource returns the submissions API driver for url, or for the
	// configured API URL when url is empty.
	RemoteSource(url string) sources.Source

	// AutoMerger returns the pull request auto-merger. Without a hosting
	// token it returns an auto-merger that reports the pass as skipped.
	AutoMerger(dryRun bool) (*hosting.AutoMerger, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
