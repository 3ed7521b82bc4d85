package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
)

// isolate keeps the developer's environment and home directory out of a test.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	orig := userHomeDir
	userHomeDir = func() (string, error) { return home, nil }
	t.Cleanup(func() { userHomeDir = orig })

	for _, key := range []string{"GITHUB_TOKEN", "LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "GITHUB_API_URL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.RepoPath)
	assert.Equal(t, constants.DefaultSubmissionsPath, cfg.SubmissionsPath)
	assert.Equal(t, constants.DefaultSubmissionPrefix, cfg.SubmissionPrefix)
	assert.Equal(t, constants.DefaultCollectionPath, cfg.CollectionPath)
	assert.Equal(t, constants.DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, constants.DefaultRepository, cfg.Repository)
	assert.Equal(t, constants.BotName, cfg.GitUserName)
	assert.Equal(t, constants.BotEmail, cfg.GitUserEmail)
	assert.Equal(t, constants.DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.True(t, cfg.GitEnabled)
	assert.Empty(t, cfg.HostingToken)
	assert.False(t, cfg.HasHostingToken())
	assert.Empty(t, cfg.LogLevel)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PINOUTBOT_REPOSITORY", "me/pinouts")
	t.Setenv("PINOUTBOT_SUBMISSIONS_PATH", "incoming")
	t.Setenv("PINOUTBOT_HTTP_TIMEOUT", "5s")
	t.Setenv("PINOUTBOT_GIT", "false")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.HostingToken)
	assert.True(t, cfg.HasHostingToken())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "me/pinouts", cfg.Repository)
	assert.Equal(t, "incoming", cfg.SubmissionsPath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.GitEnabled)
}

func TestLoadPrefixedTokenWins(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_TOKEN", "plain")
	t.Setenv("PINOUTBOT_GITHUB_TOKEN", "prefixed")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.HostingToken)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"collection_path: data/pinouts.json\nrepository: acme/batteries\nlog_format: json\n"), 0o644))

	v := viper.New()
	v.Set("config", path)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "data/pinouts.json", cfg.CollectionPath)
	assert.Equal(t, "acme/batteries", cfg.Repository)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfigFileFromHome(t *testing.T) {
	home := t.TempDir()
	isolate(t)
	userHomeDir = func() (string, error) { return home, nil }
	require.NoError(t, os.WriteFile(filepath.Join(home, ".pinoutbot.yaml"), []byte("api_url: https://example.com/list\n"), 0o644))

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/list", cfg.APIURL)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load(v)
	var cerr *errors.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			CollectionPath:  "pinouts.json",
			SubmissionsPath: "submissions",
			Repository:      "owner/repo",
			APIURL:          "https://example.com/list",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad repository", mutate: func(c *Config) { c.Repository = "owner" }},
		{name: "nested repository", mutate: func(c *Config) { c.Repository = "a/b/c" }},
		{name: "bad api url", mutate: func(c *Config) { c.APIURL = "ftp://example.com" }},
		{name: "relative api url", mutate: func(c *Config) { c.APIURL = "/list" }},
		{name: "empty collection", mutate: func(c *Config) { c.CollectionPath = "" }},
		{name: "empty submissions", mutate: func(c *Config) { c.SubmissionsPath = "" }},
		{name: "negative timeout", mutate: func(c *Config) { c.HTTPTimeout = -time.Second }},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cerr *errors.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestResolvePaths(t *testing.T) {
	cfg := &Config{RepoPath: "/srv/repo", CollectionPath: "pinouts.json", SubmissionsPath: "submissions"}
	assert.Equal(t, filepath.Join("/srv/repo", "pinouts.json"), cfg.CollectionFile())
	assert.Equal(t, filepath.Join("/srv/repo", "submissions"), cfg.SubmissionsDir())
	assert.Equal(t, "/abs/file.json", cfg.Resolve("/abs/file.json"))
	assert.Equal(t, "submissions", cfg.RepoRelativeSubmissions())

	cfg.SubmissionsPath = "/srv/repo/incoming/"
	assert.Equal(t, "incoming", cfg.RepoRelativeSubmissions())
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PINOUTBOT_TEST_A=from-env\nPINOUTBOT_TEST_B=from-env\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("PINOUTBOT_TEST_A=from-local\n"), 0o644))
	t.Setenv("PINOUTBOT_TEST_A", "")
	t.Setenv("PINOUTBOT_TEST_B", "")
	require.NoError(t, os.Unsetenv("PINOUTBOT_TEST_A"))
	require.NoError(t, os.Unsetenv("PINOUTBOT_TEST_B"))

	loaded := LoadEnvFiles(dir)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "from-local", os.Getenv("PINOUTBOT_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("PINOUTBOT_TEST_B"))
}
