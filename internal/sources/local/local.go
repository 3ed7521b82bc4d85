// Package local implements the submissions-directory driver. Every file
// named <prefix>*<ext> in the directory holds exactly one record; files are
// merged in lexicographic filename order and deleted once the collection
// containing them has been written.
package local

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
	"github.com/webspiderteam/pinoutbot/pkg/records"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// Source reads submission files from a directory.
type Source struct {
	dir       string
	prefix    string
	extension string
}

// New creates a new local source reading from dir.
func New(dir string, opts ...Option) *Source {
	s := &Source{
		dir:       dir,
		prefix:    constants.DefaultSubmissionPrefix,
		extension: constants.SubmissionExtension,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a local source.
type Option func(*Source)

// WithPrefix sets the submission filename prefix.
func WithPrefix(prefix string) Option {
	return func(s *Source) {
		s.prefix = prefix
	}
}

// WithExtension sets the submission filename extension.
func WithExtension(ext string) Option {
	return func(s *Source) {
		s.extension = ext
	}
}

// ID returns the type of this source.
func (s *Source) ID() sources.ID {
	return sources.LocalID
}

// Dir returns the submissions directory.
func (s *Source) Dir() string {
	return s.dir
}

// Pattern returns the glob matched against the submissions directory.
func (s *Source) Pattern() string {
	return filepath.Join(s.dir, s.prefix+"*"+s.extension)
}

// TrackedPaths returns the paths released submissions are removed from.
func (s *Source) TrackedPaths() []string {
	return []string{s.dir}
}

// Files lists the submission files in merge order. A missing directory
// has no submissions.
func (s *Source) Files() ([]string, error) {
	matches, err := filepath.Glob(s.Pattern())
	if err != nil {
		return nil, errors.NewValidationError("pattern", s.Pattern(), err.Error())
	}

	files := matches[:0]
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return nil, errors.WrapIO("stat", m, err)
		}
		if info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files, nil
}

// Fetch parses every submission file into a candidate.
func (s *Source) Fetch(ctx context.Context, opts ...sources.Option) (*sources.Batch, error) {
	options := sources.Defaults().Apply(opts...)
	logger := logging.FromContext(ctx)

	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	batch := &sources.Batch{Source: s.ID()}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := readRecord(path)
		if err != nil {
			if !options.SkipInvalid || !errors.IsParseError(err) {
				return nil, err
			}
			logger.Warn().Err(err).Str("file", path).Msg("Skipping invalid submission")
			batch.Rejected = append(batch.Rejected, sources.Rejected{Origin: path, Err: err})
			continue
		}
		batch.Candidates = append(batch.Candidates, sources.Candidate{Record: rec, Origin: path})
	}

	logger.Debug().
		Str("dir", s.dir).
		Int("files", len(files)).
		Int("rejected", len(batch.Rejected)).
		Msg("Read submission files")
	return batch, nil
}

// Commit deletes every consumed submission file, duplicates included.
// Rejected files are left in place. Files already gone are ignored.
func (s *Source) Commit(ctx context.Context, batch *sources.Batch) error {
	logger := logging.FromContext(ctx)

	var firstErr error
	for _, path := range batch.Origins() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Error().Err(err).Str("file", path).Msg("Failed to delete submission")
			if firstErr == nil {
				firstErr = errors.WrapIO("delete", path, err)
			}
			continue
		}
		logger.Debug().Str("file", path).Msg("Deleted submission")
	}
	return firstErr
}

func readRecord(path string) (records.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return records.Record{}, errors.WrapIO("read", path, err)
	}
	return records.ParseRecord(data, path)
}
