package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/shahar-caura/marino/internal/dialogue"
)

const notifyTimeout = 5 * time.Second

// Notifier delivers a stored reminder to a person.
type Notifier interface {
	NotifyReminder(ctx context.Context, r *Reminder) error
}

// Capture saves a reminder built from req and, when n is not nil, delivers it
// and records the outcome. Delivery runs detached from ctx's cancellation so a
// client hanging up does not leave the reminder half-delivered. A delivery
// failure is recorded on the reminder; only storage failures are returned.
func (s *Store) Capture(ctx context.Context, req dialogue.ReminderRequest, message string, n Notifier) (*Reminder, error) {
	r := New(req, message)
	if err := s.Save(r); err != nil {
		return nil, fmt.Errorf("saving reminder: %w", err)
	}
	if n == nil {
		return r, nil
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.MarkNotified(r, n.NotifyReminder(nctx, r)); err != nil {
		return r, fmt.Errorf("saving reminder status: %w", err)
	}
	return r, nil
}
