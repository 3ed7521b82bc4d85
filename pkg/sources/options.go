package sources

// Options configures a single Fetch.
type Options struct {
	// SkipInvalid records malformed submissions in Batch.Rejected
	// instead of failing the whole fetch.
	SkipInvalid bool
}

// Option is a function that configures fetch Options.
type Option func(*Options)

// Defaults returns the default fetch options.
func Defaults() *Options {
	return &Options{
		SkipInvalid: false,
	}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSkipInvalid configures whether malformed submissions are skipped.
func WithSkipInvalid(skip bool) Option {
	return func(o *Options) {
		o.SkipInvalid = skip
	}
}
