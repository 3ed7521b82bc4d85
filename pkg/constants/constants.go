// Package constants provides shared constants used throughout the pinoutbot codebase.
// This includes timeouts, file permissions, default paths and the fixed
// messages the bot uses when it talks to git and the hosting platform.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the submissions API
	DefaultHTTPTimeout = 30 * time.Second

	// CommandTimeout is the default timeout for a whole CLI run
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds the cleanup performed after a failed run
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Path constants
const (
	// DefaultCollectionPath is the canonical dataset file, relative to the repository
	DefaultCollectionPath = "pinouts.json"

	// DefaultSubmissionsPath is the directory holding one-record submission files
	DefaultSubmissionsPath = "submissions"

	// DefaultSubmissionPrefix is the filename prefix of a submission file
	DefaultSubmissionPrefix = "pinout_"

	// SubmissionExtension is the filename extension of a submission file
	SubmissionExtension = ".json"
)

// Remote endpoints and repositories
const (
	// DefaultAPIURL is the hosted endpoint listing pending submissions
	DefaultAPIURL = "https://pinout-api.onrender.com/list-submissions-files"

	// DefaultRepository is the hosting-platform repository receiving submissions
	DefaultRepository = "webspiderteam/laptop-battery-pinouts"

	// TokenEnvVar gates pull request auto-merge
	TokenEnvVar = "GITHUB_TOKEN"
)

// Git identity and messages
const (
	// BotName is the commit author name used for automated commits
	BotName = "Pinout Bot"

	// BotEmail is the commit author email used for automated commits
	BotEmail = "pinout-bot@users.noreply.github.com"

	// MergeCommitMessage is used when new pinouts are appended to the collection
	MergeCommitMessage = "Automated daily merge of new pinouts"

	// CleanupCommitMessage is used when consumed submission files are removed
	CleanupCommitMessage = "Remove merged submission files"

	// AutoMergeCommitMessage is used when merging an eligible pull request
	AutoMergeCommitMessage = "Auto-merged by daily merge script (single submission file)"
)

// Output formatting
const (
	// JSONIndent is the indentation of the persisted collection
	JSONIndent = "  "

	// KeyDigestLength is the number of hex characters shown for a record fingerprint
	KeyDigestLength = 12
)
