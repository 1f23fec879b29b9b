package paging

import (
	"time"

	"go.uber.org/zap"
)

// graceMsg reports how the grace window of a tracker ended.
type graceMsg[T any] struct {
	sessionID string
	tracker   *tracker[T]
	items     []T
	timedOut  bool
}

// startGraceWindow defers the resolution of an append that the paginator
// acknowledged with None. Whichever comes first, a ReplaceBefore(0) payload
// delivered through the tracker's follow-up channel or the end of the grace
// window, resolves the request.
func (c *Coordinator[T]) startGraceWindow(s *session[T], t *tracker[T]) {
	t.followUp = make(chan []T, 1)

	followUp := t.followUp
	sessionID := s.id
	window := c.graceWindow

	c.graceWindows.Go(func() {
		timer := time.NewTimer(window)
		defer timer.Stop()

		msg := graceMsg[T]{sessionID: sessionID, tracker: t}
		select {
		case items := <-followUp:
			msg.items = items
		case <-timer.C:
			msg.timedOut = true
		case <-c.done:
			return
		}

		c.inbox.push(msg)
	})
}

func (c *Coordinator[T]) handleGrace(msg graceMsg[T]) {
	outcome := graceFollowUp
	if msg.timedOut {
		outcome = graceTimeout
	}
	graceWindowCounter.WithLabelValues(outcome).Inc()

	t := msg.tracker
	if t.resolved {
		return
	}

	s, ok := c.state.live(msg.sessionID)
	if !ok || s.pending != t {
		return
	}

	c.logger.Debug("grace window ended",
		zap.String("session_id", s.id),
		zap.String("request_id", t.id),
		zap.String("outcome", outcome),
		zap.Int("items", len(msg.items)),
	)
	c.complete(s, t, msg.items, nil)
}
