package git

import (
	"context"
	"strings"
	"sync"
)

// Mock provides a Runner for tests. Each call is recorded in Calls as the
// git subcommand followed by its arguments. If a function field is nil the
// method succeeds.
type Mock struct {
	mu    sync.Mutex
	Calls []string

	PullFunc             func(ctx context.Context) error
	AddFunc              func(ctx context.Context, paths ...string) error
	CommitFunc           func(ctx context.Context, message string) error
	PushFunc             func(ctx context.Context) error
	HasStagedChangesFunc func(ctx context.Context) (bool, error)
}

var _ Runner = (*Mock)(nil)

func (m *Mock) record(parts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, strings.Join(parts, " "))
}

// Pull records the call and invokes PullFunc.
func (m *Mock) Pull(ctx context.Context) error {
	m.record("pull")
	if m.PullFunc != nil {
		return m.PullFunc(ctx)
	}
	return nil
}

// Add records the call and invokes AddFunc.
func (m *Mock) Add(ctx context.Context, paths ...string) error {
	m.record(append([]string{"add"}, paths...)...)
	if m.AddFunc != nil {
		return m.AddFunc(ctx, paths...)
	}
	return nil
}

// ConfigIdentity records the call.
func (m *Mock) ConfigIdentity(_ context.Context, name, email string) error {
	m.record("config", name, email)
	return nil
}

// Commit records the call and invokes CommitFunc.
func (m *Mock) Commit(ctx context.Context, message string) error {
	m.record("commit", message)
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx, message)
	}
	return nil
}

// Push records the call and invokes PushFunc.
func (m *Mock) Push(ctx context.Context) error {
	m.record("push")
	if m.PushFunc != nil {
		return m.PushFunc(ctx)
	}
	return nil
}

// HasStagedChanges records the call and invokes HasStagedChangesFunc,
// reporting true when it is nil.
func (m *Mock) HasStagedChanges(ctx context.Context) (bool, error) {
	m.record("diff")
	if m.HasStagedChangesFunc != nil {
		return m.HasStagedChangesFunc(ctx)
	}
	return true, nil
}

// Recorded returns a copy of the recorded calls.
func (m *Mock) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}
