// Package sources defines the interface shared by every submission driver.
// A driver turns some external place where pinouts are submitted into an
// ordered batch of candidate records, and cleans up after the records it
// handed out have been persisted.
//
// Example usage:
//
//	batch, err := src.Fetch(ctx, sources.WithSkipInvalid(true))
//	if err != nil {
//	    return err
//	}
//	result := records.Merge(existing, batch.Records())
//	// ... persist result.Collection ...
//	if err := src.Commit(ctx, batch); err != nil {
//	    return err
//	}
package sources

import (
	"context"
	"slices"

	"github.com/webspiderteam/pinoutbot/pkg/records"
)

// ID represents the identifier of a submission driver.
type ID string

// String returns the string representation of a source name.
func (id ID) String() string {
	return string(id)
}

// Common source names.
const (
	LocalID  ID = "local"
	RemoteID ID = "remote"
)

// IDs returns all available source types.
func IDs() []ID {
	return []ID{
		LocalID,
		RemoteID,
	}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// Source represents a place pinout submissions are collected from.
type Source interface {
	// ID returns the identifier of this source
	ID() ID

	// Fetch returns the pending submissions in the order they must be merged
	Fetch(ctx context.Context, opts ...Option) (*Batch, error)

	// Commit releases the submissions of a batch once the collection
	// containing them has been persisted. It must not be called before.
	Commit(ctx context.Context, batch *Batch) error
}

// Tracked is implemented by sources whose submissions live inside the
// repository working tree, so releasing them is itself a change to commit.
type Tracked interface {
	TrackedPaths() []string
}

// Candidate is one submitted record together with where it came from.
type Candidate struct {
	Record records.Record
	Origin string // file path or API element reference
}

// Rejected is a submission that could not be parsed and was skipped.
type Rejected struct {
	Origin string `json:"origin" yaml:"origin"`
	Err    error  `json:"-" yaml:"-"`
}

// Batch is the ordered output of one Fetch.
type Batch struct {
	Source     ID
	Candidates []Candidate
	Rejected   []Rejected
}

// Records returns the candidate records in fetch order.
func (b *Batch) Records() []records.Record {
	if b == nil {
		return nil
	}
	out := make([]records.Record, len(b.Candidates))
	for i, c := range b.Candidates {
		out[i] = c.Record
	}
	return out
}

// Origins returns the candidate origins in fetch order.
func (b *Batch) Origins() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.Candidates))
	for i, c := range b.Candidates {
		out[i] = c.Origin
	}
	return out
}

// Len returns the number of candidates in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Candidates)
}
