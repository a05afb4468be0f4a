package extract

import (
	"regexp"
	"strings"

	"github.com/shahar-caura/marino/internal/intent"
	"github.com/shahar-caura/marino/internal/textnorm"
)

// Priority of a reminder, 1 (low) to 3 (high).
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// Params holds the slots found in a message. A nil field was not found.
type Params struct {
	Title    *string   `json:"title,omitempty"`
	Date     *string   `json:"date,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
}

// Empty reports whether no slot was found.
func (p Params) Empty() bool {
	return p.Title == nil && p.Date == nil && p.Priority == nil
}

// Extractor fills Params for a classified message.
type Extractor struct {
	dates *Dates
}

// NewExtractor returns an Extractor resolving dates with d. A nil d uses the
// system clock.
func NewExtractor(d *Dates) *Extractor {
	if d == nil {
		d = NewDates()
	}
	return &Extractor{dates: d}
}

// Dates returns the date resolver, shared with reply formatting.
func (e *Extractor) Dates() *Dates { return e.dates }

// Extract returns the slots relevant to label. Only CREATE_REMINDER carries
// slots today; other labels and blank text yield an empty Params.
func (e *Extractor) Extract(text string, label intent.Label) Params {
	if strings.TrimSpace(text) == "" || label != intent.CreateReminder {
		return Params{}
	}
	var p Params
	if t := e.Title(text); t != "" {
		p.Title = &t
	}
	if d, ok := e.dates.Extract(text); ok {
		p.Date = &d
	}
	prio := PriorityOf(text)
	p.Priority = &prio
	return p
}

var titleRe = regexp.MustCompile(`(?i)(?:recordar(?:me)?|recordatorio|tarea|evento)\s+(?:(?:que|para|sobre|de)\s+)?(.+?)(?:\s+(?:para\s+el|en|el|a\s+las?|por\s+la|antes\s+del?|despu[eé]s\s+del?|hasta\s+el)\s|\s+\d{1,2}\s+de\s|\s+\d{1,2}/|$)`)

var triggerStripRe = regexp.MustCompile(`(?i)recordatorios?\b|crear\s+(?:un\s+)?recordatorio|nueva\s+tarea|nuevo\s+evento|agregar\s+(?:un\s+)?recordatorio|recu[eé]rd(?:ame|anos|ale|es|a|e)\b|record[aá](?:rme|rnos|me|r)?`)

// Title finds the reminder subject: the longest content phrase once dates,
// times and trigger words are removed. Failing that, the text after a trigger
// verb, and finally whatever is left after stripping trigger phrases.
func (e *Extractor) Title(text string) string {
	spans := e.dates.Spans(text)
	if t := longest(Phrases(text, spans)); t != "" {
		return t
	}
	if m := titleRe.FindStringSubmatchIndex(text); m != nil {
		start, end := m[2], m[3]
		for _, s := range spans {
			if s.Start >= start && s.Start < end {
				end = s.Start
				break
			}
		}
		if t := cleanTitle(text[start:end]); t != "" {
			return t
		}
	}
	return cleanTitle(triggerStripRe.ReplaceAllString(mask(text, spans), " "))
}

// mask blanks out spans so dates never end up in a title.
func mask(text string, spans []Span) string {
	b := []byte(text)
	for _, s := range spans {
		for i := s.Start; i < s.End; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

func cleanTitle(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 && functionWords[textnorm.Fold(strings.Trim(words[0], punct))] {
		words = words[1:]
	}
	for len(words) > 0 && functionWords[textnorm.Fold(strings.Trim(words[len(words)-1], punct))] {
		words = words[:len(words)-1]
	}
	return strings.Trim(strings.Join(words, " "), punct)
}

const punct = " ,.;:!?¡¿\"'"

var (
	highPriority   = regexp.MustCompile(`\b(?:urgente|importante|critico|alta\s+prioridad|prioridad\s+alta)\b`)
	mediumPriority = regexp.MustCompile(`\b(?:media\s+prioridad|prioridad\s+media|normal)\b`)
)

// PriorityOf maps priority keywords to a level; high wins over medium and
// the default is low.
func PriorityOf(text string) Priority {
	folded := textnorm.Fold(text)
	switch {
	case highPriority.MatchString(folded):
		return PriorityHigh
	case mediumPriority.MatchString(folded):
		return PriorityMedium
	default:
		return PriorityLow
	}
}
