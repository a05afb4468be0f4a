// Package notifier delivers captured reminders to a chat channel.
package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/shahar-caura/marino/internal/outbox"
)

// ErrUnsupportedProvider is returned by FromConfig for unknown providers.
var ErrUnsupportedProvider = errors.New("unsupported notifier provider")

// Notifier tells a person about a captured reminder.
type Notifier interface {
	NotifyReminder(ctx context.Context, r *outbox.Reminder) error
}

// FromConfig returns the notifier for provider, or nil when provider is empty.
func FromConfig(provider, webhookURL string) (Notifier, error) {
	switch provider {
	case "":
		return nil, nil
	case "slack":
		return New(webhookURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}
