package paging

import (
	"time"

	"github.com/livelist/livelist/pkg/logger"
)

// DefaultGraceWindow is how long an append acknowledged with None waits for
// the ReplaceBefore that may carry its items.
const DefaultGraceWindow = 250 * time.Millisecond

type coordinatorConfig struct {
	logger      logger.Logger
	notifier    InvalidationNotifier
	graceWindow time.Duration
}

// CoordinatorOpt defines an option that can be used to change the behavior of a Coordinator.
type CoordinatorOpt func(*coordinatorConfig)

// WithLogger sets the logger of the coordinator.
func WithLogger(logger logger.Logger) CoordinatorOpt {
	return func(c *coordinatorConfig) {
		c.logger = logger
	}
}

// WithInvalidationNotifier sets the receiver of invalidation events. By
// default invalidations are dropped.
func WithInvalidationNotifier(notifier InvalidationNotifier) CoordinatorOpt {
	return func(c *coordinatorConfig) {
		c.notifier = notifier
	}
}

// WithGraceWindow sets the grace window. Non-positive values are ignored.
func WithGraceWindow(d time.Duration) CoordinatorOpt {
	return func(c *coordinatorConfig) {
		if d > 0 {
			c.graceWindow = d
		}
	}
}
