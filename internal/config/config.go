// Package config loads the bot configuration from flags, environment
// variables, .env files and an optional YAML config file.
package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// EnvPrefix namespaces the bot's environment variables.
const EnvPrefix = "PINOUTBOT"

// Config holds the application configuration.
type Config struct {
	// Dataset repository
	RepoPath         string
	SubmissionsPath  string
	SubmissionPrefix string
	CollectionPath   string
	GitEnabled       bool
	GitUserName      string
	GitUserEmail     string

	// Submissions API
	APIURL      string
	APIToken    string
	HTTPTimeout time.Duration

	// Hosting platform
	HostingToken string
	Repository   string
	GitHubAPIURL string

	// Global flags
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("repo_path", ".")
	v.SetDefault("submissions_path", constants.DefaultSubmissionsPath)
	v.SetDefault("submission_prefix", constants.DefaultSubmissionPrefix)
	v.SetDefault("collection_path", constants.DefaultCollectionPath)
	v.SetDefault("git", true)
	v.SetDefault("git_user_name", constants.BotName)
	v.SetDefault("git_user_email", constants.BotEmail)
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("repository", constants.DefaultRepository)
	v.SetDefault("format", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Load builds a Config from v. Keys are resolved in viper's order:
// explicit Set, flags, environment, config file, defaults.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Keys that keep their conventional unprefixed names.
	bindings := map[string][]string{
		"github_token":   {EnvPrefix + "_GITHUB_TOKEN", constants.TokenEnvVar},
		"github_api_url": {EnvPrefix + "_GITHUB_API_URL", "GITHUB_API_URL"},
		"log_level":      {EnvPrefix + "_LOG_LEVEL", "LOG_LEVEL"},
		"log_format":     {EnvPrefix + "_LOG_FORMAT", "LOG_FORMAT"},
		"log_output":     {EnvPrefix + "_LOG_OUTPUT", "LOG_OUTPUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.NewConfigError("environment", "failed to bind "+key, err)
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		RepoPath:         v.GetString("repo_path"),
		SubmissionsPath:  v.GetString("submissions_path"),
		SubmissionPrefix: v.GetString("submission_prefix"),
		CollectionPath:   v.GetString("collection_path"),
		GitEnabled:       v.GetBool("git"),
		GitUserName:      v.GetString("git_user_name"),
		GitUserEmail:     v.GetString("git_user_email"),

		APIURL:      v.GetString("api_url"),
		APIToken:    v.GetString("api_token"),
		HTTPTimeout: v.GetDuration("http_timeout"),

		HostingToken: v.GetString("github_token"),
		Repository:   v.GetString("repository"),
		GitHubAPIURL: v.GetString("github_api_url"),

		ConfigFile: v.ConfigFileUsed(),
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}
	return cfg, nil
}

// readConfigFile reads the file named by the "config" key, or searches for
// .pinoutbot.yaml in the home and working directories. Only an explicitly
// named file is required to exist.
func readConfigFile(v *viper.Viper) error {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("file", "failed to read "+file, err)
		}
		return nil
	}

	if home, err := userHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName(".pinoutbot")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.NewConfigError("file", "failed to read config file", err)
	}
	return nil
}

// Validate checks the configuration for values no run can work with.
func (c *Config) Validate() error {
	if c.CollectionPath == "" {
		return errors.NewConfigError("collection_path", "must not be empty", nil)
	}
	if c.SubmissionsPath == "" {
		return errors.NewConfigError("submissions_path", "must not be empty", nil)
	}
	if c.Repository != "" {
		owner, name, ok := strings.Cut(c.Repository, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return errors.NewConfigError("repository", "expected owner/name, got "+c.Repository, nil)
		}
	}
	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.NewConfigError("api_url", "expected an http(s) URL, got "+c.APIURL, err)
		}
	}
	if c.HTTPTimeout < 0 {
		return errors.NewConfigError("http_timeout", "must be non-negative", nil)
	}
	return nil
}

// Resolve returns p relative to the repository when it is not absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) || c.RepoPath == "" {
		return p
	}
	return filepath.Join(c.RepoPath, p)
}

// CollectionFile returns the resolved path of the collection file.
func (c *Config) CollectionFile() string {
	return c.Resolve(c.CollectionPath)
}

// SubmissionsDir returns the resolved path of the submissions directory.
func (c *Config) SubmissionsDir() string {
	return c.Resolve(c.SubmissionsPath)
}

// RepoRelativeSubmissions returns the submissions directory as a
// slash-separated path relative to the repository root, which is how the
// hosting platform names changed files.
func (c *Config) RepoRelativeSubmissions() string {
	p := c.SubmissionsPath
	if filepath.IsAbs(p) && c.RepoPath != "" {
		root, err := filepath.Abs(c.RepoPath)
		if err == nil {
			if rel, err := filepath.Rel(root, p); err == nil {
				p = rel
			}
		}
	}
	return filepath.ToSlash(filepath.Clean(p))
}

// HasHostingToken reports whether pull request auto-merge can run.
func (c *Config) HasHostingToken() bool {
	return c.HostingToken != ""
}
