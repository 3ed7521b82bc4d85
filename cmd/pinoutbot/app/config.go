package app

import (
	"github.com/spf13/viper"

	"github.com/webspiderteam/pinoutbot/internal/config"
)

// Config is the application configuration.
type Config = config.Config

// globalFlags holds the persistent flags parsed by the root command.
type globalFlags struct {
	ConfigFile      string
	Verbose         bool
	Quiet           bool
	NoColor         bool
	Format          string
	LogLevel        string
	RepoPath        string
	CollectionPath  string
	SubmissionsPath string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by applyFlags)
// 2. Environment variables
// 3. .env.local and .env files
// 4. Config file (configFile, or ~/.pinoutbot.yaml / ./.pinoutbot.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	config.LoadEnvFiles("")

	v := viper.New()
	if configFile != "" {
		v.Set("config", configFile)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies the flags that were set on the command line over the
// loaded configuration.
func applyFlags(c *Config, f globalFlags, changed func(name string) bool) {
	if f.Verbose {
		c.Verbose = true
	}
	if f.Quiet {
		c.Quiet = true
	}
	if f.NoColor {
		c.NoColor = true
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	switch {
	case f.LogLevel != "":
		c.LogLevel = f.LogLevel
	case f.Verbose || f.Quiet:
		// -v and -q beat LOG_LEVEL from the environment
		c.LogLevel = ""
	}
	if changed("repo") {
		c.RepoPath = f.RepoPath
	}
	if changed("collection") {
		c.CollectionPath = f.CollectionPath
	}
	if changed("submissions") {
		c.SubmissionsPath = f.SubmissionsPath
	}
}
