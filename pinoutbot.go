// Package pinoutbot merges community-submitted laptop battery pinouts into
// one canonical JSON collection.
//
// A Client owns the collection file. Submissions arrive through a
// sources.Source (a directory of pinout_*.json files or the hosted
// submissions API); Sync merges them, dropping exact structural duplicates,
// rewrites the collection and, when a git runner is configured, commits and
// pushes the result. Pull requests that add a single submission file can be
// merged on the hosting platform with AutoMerge.
//
// Example usage:
//
//	client, err := pinoutbot.New(
//	    pinoutbot.WithCollectionPath("pinouts.json"),
//	    pinoutbot.WithGit(git.New(".")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnRecordAdded(func(c sources.Candidate) {
//	    fmt.Println("Added:", c.Origin)
//	})
//
//	result, err := client.Sync(ctx, local.New("submissions"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package pinoutbot

import (
	"github.com/rs/zerolog"

	"github.com/webspiderteam/pinoutbot/internal/dataset"
	"github.com/webspiderteam/pinoutbot/internal/git"
	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
	"github.com/webspiderteam/pinoutbot/pkg/records"
)

// Client merges submissions into a collection file.
type Client struct {
	collectionPath string
	git            git.Runner
	gitName        string
	gitEmail       string
	automerger     *hosting.AutoMerger
	logger         *zerolog.Logger

	*hooks
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		collectionPath: constants.DefaultCollectionPath,
		gitName:        constants.BotName,
		gitEmail:       constants.BotEmail,
		logger:         logging.Default(),
		hooks:          newHooks(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CollectionPath returns the path of the collection file.
func (c *Client) CollectionPath() string {
	return c.collectionPath
}

// Collection loads the current collection from disk. A missing file is an
// empty collection.
func (c *Client) Collection() (records.Collection, error) {
	return dataset.Load(c.collectionPath)
}
