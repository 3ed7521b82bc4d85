// Package remote implements the submissions API driver. The API returns a
// JSON array of objects, each carrying the submitted record under "data".
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/webspiderteam/pinoutbot/internal/transport"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
	"github.com/webspiderteam/pinoutbot/pkg/records"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// ServiceName identifies the API in errors and logs.
const ServiceName = "submissions-api"

// submission is one element of the API response.
type submission struct {
	Data json.RawMessage `json:"data"`
}

// Source fetches submissions from the hosted API.
type Source struct {
	url    string
	client *transport.Client
}

// New creates a remote source for url. A nil client uses an unauthenticated
// transport client with the default timeout.
func New(url string, client *transport.Client) *Source {
	if client == nil {
		client = transport.New(&transport.NoAuth{})
	}
	return &Source{url: url, client: client}
}

// ID returns the type of this source.
func (s *Source) ID() sources.ID {
	return sources.RemoteID
}

// URL returns the endpoint queried by Fetch.
func (s *Source) URL() string {
	return s.url
}

// Fetch retrieves the pending submissions in API order.
func (s *Source) Fetch(ctx context.Context, opts ...sources.Option) (*sources.Batch, error) {
	options := sources.Defaults().Apply(opts...)
	logger := logging.FromContext(ctx)

	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, &errors.APIError{
			Service:  ServiceName,
			Message:  "request failed",
			Endpoint: s.url,
			Err:      err,
		}
	}

	var items []json.RawMessage
	if err := transport.DecodeResponse(resp, ServiceName, &items); err != nil {
		return nil, err
	}

	batch := &sources.Batch{Source: s.ID()}
	for i, item := range items {
		origin := fmt.Sprintf("%s[%d]", s.url, i)
		rec, err := parseItem(item, origin)
		if err != nil {
			if !options.SkipInvalid {
				return nil, err
			}
			logger.Warn().Err(err).Str("origin", origin).Msg("Skipping invalid submission")
			batch.Rejected = append(batch.Rejected, sources.Rejected{Origin: origin, Err: err})
			continue
		}
		batch.Candidates = append(batch.Candidates, sources.Candidate{Record: rec, Origin: origin})
	}

	logger.Debug().
		Str("url", s.url).
		Int("submissions", len(items)).
		Int("rejected", len(batch.Rejected)).
		Msg("Fetched submissions")
	return batch, nil
}

// Commit is a no-op; the API keeps its own submissions.
func (s *Source) Commit(_ context.Context, _ *sources.Batch) error {
	return nil
}

// parseItem decodes one array element. An element that is not an object
// or lacks "data" is a parse error naming origin.
func parseItem(raw json.RawMessage, origin string) (records.Record, error) {
	var item submission
	if err := json.Unmarshal(raw, &item); err != nil {
		return records.Record{}, errors.NewParseError("json", origin, "expected an object with a \"data\" field", err)
	}
	if item.Data == nil {
		return records.Record{}, errors.NewParseError("json", origin, `missing "data" field`, nil)
	}
	return records.ParseRecord(item.Data, origin)
}
