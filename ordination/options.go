package ordination

import "github.com/rs/zerolog"

// Option mutates internal options. Safe to apply repeatedly (last writer wins).
type Option func(*options)

// options stores the effective configuration after applying Option setters.
type options struct {
	logger zerolog.Logger
}

// WithLogger routes the engine's debug trace (grand total, ranks, inertia)
// to l. The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// gatherOptions applies user-provided setters on top of the defaults.
func gatherOptions(user ...Option) options {
	o := options{logger: zerolog.Nop()}
	for _, set := range user {
		if set != nil {
			set(&o)
		}
	}

	return o
}
