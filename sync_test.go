package pinoutbot_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/git"
	"github.com/webspiderteam/pinoutbot/internal/sources/local"
	"github.com/webspiderteam/pinoutbot/internal/sources/remote"
	"github.com/webspiderteam/pinoutbot/pkg/constants"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/logging"
	"github.com/webspiderteam/pinoutbot/pkg/records"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
	"github.com/webspiderteam/pinoutbot/pkg/sync"
)

type fixture struct {
	dir         string
	collection  string
	submissions string
}

func newFixture(t *testing.T, collection string, files map[string]string) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:         dir,
		collection:  filepath.Join(dir, "pinouts.json"),
		submissions: filepath.Join(dir, "submissions"),
	}
	if collection != "" {
		require.NoError(t, os.WriteFile(f.collection, []byte(collection), 0o644))
	}
	require.NoError(t, os.MkdirAll(f.submissions, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(f.submissions, name), []byte(content), 0o644))
	}
	return f
}

func (f fixture) read(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.collection)
	require.NoError(t, err)
	return string(data)
}

func (f fixture) remaining(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.submissions)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func newClient(t *testing.T, f fixture, opts ...pinoutbot.Option) *pinoutbot.Client {
	t.Helper()
	logger := logging.NewNopLogger()
	c, err := pinoutbot.New(append([]pinoutbot.Option{
		pinoutbot.WithCollectionPath(f.collection),
		pinoutbot.WithLogger(logger),
	}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestSync_LocalScenario(t *testing.T) {
	f := newFixture(t, `[{"pins":3}]`, map[string]string{
		"pinout_a.json": `{"pins":3}`,
		"pinout_b.json": `{"pins":4}`,
	})
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)

	assert.Equal(t, sources.LocalID, result.Source)
	assert.Equal(t, 2, result.Candidates)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.CollectionSize)
	assert.True(t, result.Written)
	assert.True(t, result.Committed)
	assert.True(t, result.Released)
	assert.True(t, result.Pushed)

	assert.Equal(t, "[\n  {\n    \"pins\": 3\n  },\n  {\n    \"pins\": 4\n  }\n]\n", f.read(t))
	assert.Empty(t, f.remaining(t))

	identity := fmt.Sprintf("config %s %s", constants.BotName, constants.BotEmail)
	assert.Equal(t, []string{
		"pull",
		"add " + f.collection,
		"diff",
		identity,
		"commit " + constants.MergeCommitMessage,
		"add " + f.submissions,
		"diff",
		identity,
		"commit " + constants.CleanupCommitMessage,
		"push",
	}, runner.Recorded())
}

func TestSync_LogsEachCandidate(t *testing.T) {
	f := newFixture(t, `[{"pins":3}]`, map[string]string{
		"pinout_a.json": `{"pins":3}`,
		"pinout_b.json": `{"pins":4}`,
	})
	c := newClient(t, f)
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	_, err := c.Sync(ctx, local.New(f.submissions))
	require.NoError(t, err)

	a := filepath.Join(f.submissions, "pinout_a.json")
	b := filepath.Join(f.submissions, "pinout_b.json")
	var outcomes []string
	for _, msg := range tl.Messages() {
		if strings.HasPrefix(msg, "Added: ") || strings.HasPrefix(msg, "Duplicate (skipped): ") {
			outcomes = append(outcomes, msg)
		}
	}
	assert.Equal(t, []string{"Duplicate (skipped): " + a, "Added: " + b}, outcomes)
	tl.AssertContains(t, `"source":"local"`)
	tl.AssertContains(t, "Added 1 new pinouts. Saved to "+f.collection+".")
}

func TestSync_IntraBatchDuplicates(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{
		"pinout_1.json": `{"x":1}`,
		"pinout_2.json": `{ "x" : 1 }`,
	})
	c := newClient(t, f)

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)

	coll, err := c.Collection()
	require.NoError(t, err)
	require.Equal(t, 1, coll.Len())
	assert.True(t, coll[0].Equal(records.MustParse(`{"x":1}`)))
}

func TestSync_MissingCollection(t *testing.T) {
	f := newFixture(t, "", map[string]string{"pinout_1.json": `{"Model":"Ä","b":2,"a":1}`})
	c := newClient(t, f)

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, "[\n  {\n    \"Model\": \"Ä\",\n    \"b\": 2,\n    \"a\": 1\n  }\n]\n", f.read(t))
}

func TestSync_NothingNew(t *testing.T) {
	const existing = "[{\"pins\": 3}]"
	f := newFixture(t, existing, map[string]string{"pinout_1.json": `{"pins":3}`})
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)

	assert.False(t, result.HasChanges())
	assert.False(t, result.Written)
	assert.True(t, result.Released)
	assert.Equal(t, existing, f.read(t), "collection must not be rewritten")
	assert.Empty(t, f.remaining(t))
	assert.Contains(t, runner.Recorded(), "commit "+constants.CleanupCommitMessage)
	assert.NotContains(t, runner.Recorded(), "commit "+constants.MergeCommitMessage)
}

func TestSync_EmptyInput(t *testing.T) {
	f := newFixture(t, `[{"pins":3}]`, nil)
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Candidates)
	assert.False(t, result.Released)
	assert.False(t, result.Committed)
	assert.Equal(t, []string{"pull"}, runner.Recorded())
}

func TestSync_DryRun(t *testing.T) {
	const existing = `[{"pins":3}]`
	f := newFixture(t, existing, map[string]string{"pinout_1.json": `{"pins":4}`})
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions), sync.WithDryRun(true))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.CollectionSize)
	assert.False(t, result.Written)
	assert.Equal(t, existing, f.read(t))
	assert.Equal(t, []string{"pinout_1.json"}, f.remaining(t))
	assert.Empty(t, runner.Recorded())
}

func TestSync_InvalidSubmissionAborts(t *testing.T) {
	const existing = `[{"pins":3}]`
	f := newFixture(t, existing, map[string]string{
		"pinout_1.json": `{"pins":4}`,
		"pinout_2.json": `{"pins":`,
	})
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	_, err := c.Sync(context.Background(), local.New(f.submissions))
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))

	assert.Equal(t, existing, f.read(t))
	assert.Len(t, f.remaining(t), 2)
	assert.Equal(t, []string{"pull"}, runner.Recorded())
}

func TestSync_SkipInvalid(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{
		"pinout_1.json": `{"pins":4}`,
		"pinout_2.json": `nope`,
	})
	c := newClient(t, f)

	var rejected []string
	c.OnRejected(func(r sources.Rejected) { rejected = append(rejected, filepath.Base(r.Origin)) })

	result, err := c.Sync(context.Background(), local.New(f.submissions), sync.WithSkipInvalid(true))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, []string{"pinout_2.json"}, rejected)
	assert.Equal(t, []string{"pinout_2.json"}, f.remaining(t))
}

func TestSync_NoPush(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{"pinout_1.json": `1`})
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions), sync.WithNoPush(true))
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.False(t, result.Pushed)
	assert.NotContains(t, runner.Recorded(), "push")
}

func TestSync_PullFailure(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{"pinout_1.json": `1`})
	runner := &git.Mock{PullFunc: func(context.Context) error {
		return &errors.ProcessError{Operation: "pull repository", Command: "git pull", Err: fmt.Errorf("exit status 1")}
	}}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	_, err := c.Sync(context.Background(), local.New(f.submissions))
	var pe *errors.ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, `[]`, f.read(t))
	assert.Equal(t, []string{"pinout_1.json"}, f.remaining(t))
}

func TestSync_CommitFailureKeepsSubmissions(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{"pinout_1.json": `1`})
	runner := &git.Mock{CommitFunc: func(context.Context, string) error {
		return &errors.ProcessError{Operation: "commit changes", Command: "git commit", Err: fmt.Errorf("exit status 1")}
	}}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.Error(t, err)
	assert.True(t, result.Written)
	assert.False(t, result.Released)
	assert.Equal(t, []string{"pinout_1.json"}, f.remaining(t))
}

func TestSync_NoStagedChangesSkipsCommit(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{"pinout_1.json": `1`})
	runner := &git.Mock{HasStagedChangesFunc: func(context.Context) (bool, error) { return false, nil }}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	assert.False(t, result.Committed)
	assert.False(t, result.Pushed)
}

// orderSource verifies that Commit only runs once the collection is written.
type orderSource struct {
	t          *testing.T
	collection string
	batch      *sources.Batch
	committed  bool
}

func (s *orderSource) ID() sources.ID { return "order" }

func (s *orderSource) Fetch(context.Context, ...sources.Option) (*sources.Batch, error) {
	return s.batch, nil
}

func (s *orderSource) Commit(_ context.Context, b *sources.Batch) error {
	data, err := os.ReadFile(s.collection)
	require.NoError(s.t, err)
	coll, err := records.ParseCollection(data, s.collection)
	require.NoError(s.t, err)
	for _, c := range b.Candidates {
		assert.True(s.t, coll.Contains(c.Record), "released %s before it was persisted", c.Origin)
	}
	s.committed = true
	return nil
}

func TestSync_ReleasesAfterWrite(t *testing.T) {
	f := newFixture(t, "", nil)
	src := &orderSource{
		t:          t,
		collection: f.collection,
		batch: &sources.Batch{Candidates: []sources.Candidate{
			{Record: records.MustParse(`{"a":1}`), Origin: "one"},
			{Record: records.MustParse(`{"a":2}`), Origin: "two"},
		}},
	}

	_, err := newClient(t, f).Sync(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, src.committed)
}

func TestSync_Hooks(t *testing.T) {
	f := newFixture(t, `[{"pins":3}]`, map[string]string{
		"pinout_1.json": `{"pins":3}`,
		"pinout_2.json": `{"pins":4}`,
		"pinout_3.json": `{"pins":4}`,
	})
	c := newClient(t, f)

	var added, dups []string
	c.OnRecordAdded(func(cand sources.Candidate) { added = append(added, filepath.Base(cand.Origin)) })
	c.OnDuplicate(func(cand sources.Candidate) { dups = append(dups, filepath.Base(cand.Origin)) })

	_, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	assert.Equal(t, []string{"pinout_2.json"}, added)
	assert.Equal(t, []string{"pinout_1.json", "pinout_3.json"}, dups)
}

func TestSync_RemotePreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[{"data":{"pins":9}},{"data":{"pins":3}},{"data":{"pins":1}}]`)
	}))
	defer srv.Close()

	f := newFixture(t, `[{"pins":3}]`, nil)
	runner := &git.Mock{}
	c := newClient(t, f, pinoutbot.WithGit(runner))

	result, err := c.Sync(context.Background(), remote.New(srv.URL, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, "[\n  {\n    \"pins\": 3\n  },\n  {\n    \"pins\": 9\n  },\n  {\n    \"pins\": 1\n  }\n]\n", f.read(t))
	assert.Contains(t, runner.Recorded(), "commit "+constants.MergeCommitMessage)
	assert.NotContains(t, runner.Recorded(), "commit "+constants.CleanupCommitMessage)
}

func TestSync_RemoteFailureWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFixture(t, `[]`, nil)
	_, err := newClient(t, f).Sync(context.Background(), remote.New(srv.URL, nil))
	assert.True(t, errors.IsServiceUnavailable(err))
	assert.Equal(t, `[]`, f.read(t))
}

func TestSync_Idempotent(t *testing.T) {
	f := newFixture(t, `[]`, map[string]string{"pinout_1.json": `{"pins":4}`})
	c := newClient(t, f)

	_, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	first := f.read(t)

	// Same submission again.
	require.NoError(t, os.WriteFile(filepath.Join(f.submissions, "pinout_1.json"), []byte(`{"pins":4}`), 0o644))
	result, err := c.Sync(context.Background(), local.New(f.submissions))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, first, f.read(t))
}

func TestNewRejectsEmptyCollectionPath(t *testing.T) {
	_, err := pinoutbot.New(pinoutbot.WithCollectionPath(""))
	assert.True(t, errors.IsValidationError(err))
}
