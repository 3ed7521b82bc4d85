package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webspiderteam/pinoutbot/pkg/logging"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestWithFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	ctx = logging.WithFields(ctx, map[string]any{
		"added":   2,
		"dry_run": true,
		"error":   errors.New("boom"),
		"path":    "pinouts.json",
	})
	ctx = logging.WithField(ctx, "skipped", int64(3))

	logging.Ctx(ctx).Info().Msg("done")

	tl.AssertContains(t, `"added":2`)
	tl.AssertContains(t, `"dry_run":true`)
	tl.AssertContains(t, `"error":"boom"`)
	tl.AssertContains(t, `"path":"pinouts.json"`)
	tl.AssertContains(t, `"skipped":3`)
}

func TestWithLoggerNil(t *testing.T) {
	ctx := logging.WithLogger(context.Background(), nil)
	assert.Same(t, logging.Default(), logging.FromContext(ctx))
}
