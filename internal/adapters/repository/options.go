package repository

import "time"

// settings holds knobs shared by the stores.
type settings struct {
	now func() time.Time
}

// Option applies a configuration option to a store.
type Option func(*settings)

// WithNow sets the clock used for created_at/updated_at stamps.
func WithNow(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(opts ...Option) settings {
	s := settings{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
