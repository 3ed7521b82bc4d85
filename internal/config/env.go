package config

import (
	"os"

	"github.com/joho/godotenv"
)

// EnvFiles are loaded in order; a variable already set wins.
var EnvFiles = []string{
	".env.local",
	".env",
}

// LoadEnvFiles loads environment variables from .env files that exist.
// Variables already present in the environment are never overridden.
func LoadEnvFiles(dir string) []string {
	var loaded []string
	for _, name := range EnvFiles {
		path := name
		if dir != "" {
			path = dir + string(os.PathSeparator) + name
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

// userHomeDir is a variable so tests can point config discovery elsewhere.
var userHomeDir = os.UserHomeDir
