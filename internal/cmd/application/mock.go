package application

import (
	"github.com/rs/zerolog"

	"github.com/webspiderteam/pinoutbot"
	"github.com/webspiderteam/pinoutbot/internal/config"
	"github.com/webspiderteam/pinoutbot/internal/hosting"
	"github.com/webspiderteam/pinoutbot/pkg/errors"
	"github.com/webspiderteam/pinoutbot/pkg/sources"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...pinoutbot.Option) (*pinoutbot.Client, error) {
//	        return pinoutbot.New(append([]pinoutbot.Option{
//	            pinoutbot.WithCollectionPath(path),
//	        }, opts...)...)
//	    },
//	    LocalSourceFunc: func() sources.Source {
//	        return local.New(dir)
//	    },
//	}
//	cmd := merge.NewCommand(mock)
//	// ... test command
type Mock struct {
	ConfigFunc       func() *config.Config
	ClientFunc       func(opts ...pinoutbot.Option) (*pinoutbot.Client, error)
	LocalSourceFunc  func() sources.Source
	RemoteSourceFunc func(url string) sources.Source
	AutoMergerFunc   func(dryRun bool) (*hosting.AutoMerger, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Config returns a config using the mock function or an empty config.
func (m *Mock) Config() *config.Config {
	if m.ConfigFunc != nil {
		return m.ConfigFunc()
	}
	return &config.Config{}
}

// Client returns a client using the mock function or an error.
func (m *Mock) Client(opts ...pinoutbot.Option) (*pinoutbot.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(opts...)
	}
	return nil, errors.New("mock: no client configured")
}

// LocalSource returns a source using the mock function or nil.
func (m *Mock) LocalSource() sources.Source {
	if m.LocalSourceFunc != nil {
		return m.LocalSourceFunc()
	}
	return nil
}

// RemoteSource returns a source using the mock function or nil.
func (m *Mock) RemoteSource(url string) sources.Source {
	if m.RemoteSourceFunc != nil {
		return m.RemoteSourceFunc(url)
	}
	return nil
}

// AutoMerger returns an auto-merger using the mock function or a skipping one.
func (m *Mock) AutoMerger(dryRun bool) (*hosting.AutoMerger, error) {
	if m.AutoMergerFunc != nil {
		return m.AutoMergerFunc(dryRun)
	}
	return hosting.NewAutoMerger(nil, hosting.WithDryRun(dryRun)), nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
