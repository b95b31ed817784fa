package maintainer

import (
	"log/slog"
	"time"
)

type MockTimeProvider struct {
	CurrentTime time.Time
}

func (m MockTimeProvider) Now() time.Time {
	return m.CurrentTime
}

// WithTimeProvider sets the time provider for the maintainer.
func WithTimeProvider(tp timeProvider) Options {
	return func(o *options) {
		o.timeProvider = tp
	}
}

// WithLogger sets the logger for the maintainer.
func WithLogger(l *slog.Logger) Options {
	return func(o *options) {
		o.logger = l
	}
}

// WithRemove sets the file removal function for the maintainer.
func WithRemove(remove func(string) error) Options {
	return func(o *options) {
		o.remove = remove
	}
}
