package csvstream

import "github.com/iamhimansu/csvstream/pkg/csvstream/utils"

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger utils.Logger) Option {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDialect selects the dialect used by Read. An unknown name is reported
// by Read, not here.
func WithDialect(name string) Option {
	return func(r *Reader) {
		r.current = name
	}
}
