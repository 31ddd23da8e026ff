package usecase

import (
	"io"
	"log"
)

type options struct {
	clock    Clock
	logger   *log.Logger
	notifier Notifier
}

// Option customizes a use case.
type Option func(*options)

// WithClock assigns a clock.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNotifier assigns the notifier used for claim notices.
func WithNotifier(notifier Notifier) Option {
	return func(o *options) {
		o.notifier = notifier
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = SystemClock{}
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	return o
}
