package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shahar-caura/marino/internal/extract"
	"github.com/shahar-caura/marino/internal/intent"
)

// Options configures a Bot. Nil fields get defaults: regex-only
// classification, the system clock, the built-in responses and a randomly
// seeded picker.
type Options struct {
	Classifier Resolver
	Extractor  ParamExtractor
	Responses  Responses
	Rand       Picker
	Logger     *slog.Logger
}

// Bot answers one message at a time and keeps no conversation state.
type Bot struct {
	classifier Resolver
	extractor  ParamExtractor
	responses  Responses
	pick       Picker
	logger     *slog.Logger
}

// New returns a Bot.
func New(opts Options) *Bot {
	b := &Bot{
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		responses:  opts.Responses,
		pick:       opts.Rand,
		logger:     opts.Logger,
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	if b.classifier == nil {
		b.classifier = intent.NewChain(b.logger, nil, intent.NewRegex(nil))
	}
	if b.extractor == nil {
		b.extractor = extract.NewExtractor(nil)
	}
	if b.responses == nil {
		b.responses = DefaultResponses()
	}
	if b.pick == nil {
		b.pick = NewPicker(0)
	}
	return b
}

// HandleMessage never fails: a panic anywhere below is logged and turned
// into Apology.
func (b *Bot) HandleMessage(ctx context.Context, text string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handling message", "panic", r, "message", truncate(text, 50))
			reply = Reply{Intent: intent.Unknown, Text: Apology}
		}
	}()

	match := b.classifier.Resolve(ctx, text)
	params := b.extractor.Extract(text, match.Label)
	b.logger.Info("message classified",
		"message", truncate(text, 50),
		"intent", match.Label,
		"confidence", match.Confidence,
		"strategy", match.Strategy,
	)

	reply = b.dispatch(match.Label, params)
	reply.Intent = match.Label
	return reply
}

func (b *Bot) dispatch(label intent.Label, p extract.Params) Reply {
	switch label {
	case intent.CreateReminder:
		return createReminder(p)
	case intent.ListReminders:
		return Reply{Text: listReminders}
	}
	if texts := b.responses[label]; len(texts) > 0 {
		return Reply{Text: texts[b.pick.IntN(len(texts))]}
	}
	return Reply{Text: b.unknown()}
}

func (b *Bot) unknown() string {
	texts := b.responses[intent.Unknown]
	if len(texts) == 0 {
		return DefaultResponses()[intent.Unknown][0]
	}
	return texts[b.pick.IntN(len(texts))]
}

func createReminder(p extract.Params) Reply {
	switch {
	case p.Title != nil && p.Date != nil:
		prio := extract.PriorityLow
		if p.Priority != nil {
			prio = *p.Priority
		}
		return Reply{
			Text: fmt.Sprintf(reminderConfirm, *p.Title, FormatDate(*p.Date)),
			Reminder: &ReminderRequest{
				Title:    *p.Title,
				Date:     *p.Date,
				Priority: prio.String(),
			},
		}
	case p.Title != nil:
		return Reply{Text: reminderNeedDate}
	case p.Date != nil:
		return Reply{Text: fmt.Sprintf(reminderNeedWhat, FormatDate(*p.Date))}
	default:
		return Reply{Text: reminderNeedBoth}
	}
}

// FormatDate renders a YYYY-MM-DD date as a Spanish short date (15/8/2024).
// Strings that are not valid calendar dates are returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(extract.ISODate, iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewPicker returns a goroutine-safe Picker. A zero seed picks a random one.
func NewPicker(seed uint64) Picker {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
