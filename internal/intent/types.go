package intent

import (
	"context"
	"errors"
)

// Label is the classified purpose of a user message.
type Label string

const (
	CreateReminder   Label = "CREATE_REMINDER"
	ListReminders    Label = "LIST_REMINDERS"
	Greeting         Label = "GREETING"
	Farewell         Label = "FAREWELL"
	Thanks           Label = "THANKS"
	Weather          Label = "WEATHER"
	SmallTalk        Label = "SMALL_TALK"
	Jokes            Label = "JOKES"
	TimeDate         Label = "TIME_DATE"
	ActivitiesInfo   Label = "ACTIVITIES_INFO"
	ReservationsHelp Label = "RESERVATIONS_HELP"
	Help             Label = "HELP"
	Unknown          Label = "UNKNOWN"
)

// Labels lists every label except Unknown, in declaration order.
var Labels = []Label{
	CreateReminder, ListReminders, Greeting, Farewell, Thanks, Weather,
	SmallTalk, Jokes, TimeDate, ActivitiesInfo, ReservationsHelp, Help,
}

// Valid reports whether l is a known label (Unknown included).
func (l Label) Valid() bool {
	if l == Unknown {
		return true
	}
	for _, k := range Labels {
		if k == l {
			return true
		}
	}
	return false
}

// Match is the outcome of a single classification strategy.
// Confidence is the cosine similarity for semantic matches and 1 for regex matches.
type Match struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Strategy   string  `json:"strategy"`
}

// Classifier is one strategy in a Chain. It returns false when it cannot
// decide, which hands the message to the next strategy.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (Match, bool)
}

var (
	// ErrModelUnavailable indicates the embedding backend failed to initialize
	// or to embed a message.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrEmptyIndex indicates no catalog example could be embedded.
	ErrEmptyIndex = errors.New("no intent could be embedded")
)
