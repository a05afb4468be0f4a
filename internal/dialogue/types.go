// Package dialogue turns one user message into one reply: classify, extract
// slots, answer.
package dialogue

import (
	"context"

	"github.com/shahar-caura/marino/internal/extract"
	"github.com/shahar-caura/marino/internal/intent"
)

// Apology is the only text a user sees when handling a message fails.
const Apology = "Lo siento, ha ocurrido un error al procesar tu mensaje. Por favor, inténtalo de nuevo."

// ReminderRequest is the reminder a caller should persist. It is only emitted
// once both title and date are known.
type ReminderRequest struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Date        string `json:"date" yaml:"date"`
	Priority    string `json:"priority" yaml:"priority"`
}

// Reply is the answer to one message.
type Reply struct {
	Intent   intent.Label     `json:"intent"`
	Text     string           `json:"text"`
	Reminder *ReminderRequest `json:"reminder,omitempty"`
}

// Resolver classifies a message. It must always return a label.
type Resolver interface {
	Resolve(ctx context.Context, text string) intent.Match
}

// ParamExtractor fills reminder slots for a classified message.
type ParamExtractor interface {
	Extract(text string, label intent.Label) extract.Params
}

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}
