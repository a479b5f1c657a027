package pigeonhole

import "log/slog"

// GrowthPolicy decides how many slots are appended when the free list runs dry.
type GrowthPolicy uint8

const (
	// GrowDoubling appends len+1 pre-linked free slots, roughly doubling the
	// arena each time it fills up.
	GrowDoubling GrowthPolicy = iota
	// GrowAppendOne appends a single slot per growth step.
	GrowAppendOne
)

func (p GrowthPolicy) String() string {
	switch p {
	case GrowDoubling:
		return "doubling"
	case GrowAppendOne:
		return "append-one"
	default:
		return "unknown"
	}
}

// Option configures an Arena.
type Option func(c *config)

type config struct {
	policy   GrowthPolicy
	capacity int
	logger   *slog.Logger
}

// Override the default (doubling) growth policy.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithCapacityHint preallocates backing storage for about n slots, rounded up
// to a power of two. No slots are created, the arena still starts empty.
func WithCapacityHint(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithLogger sets the logger growth events are reported to (debug level).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
