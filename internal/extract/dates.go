// Package extract pulls reminder slots (title, date, priority) out of Spanish
// free text.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ISODate is the layout of every date this package returns.
const ISODate = "2006-01-02"

// Span is a date or time expression found in a text. Start and End are byte
// offsets. Date is set only for spans that resolve to a calendar day.
type Span struct {
	Start, End int
	Date       time.Time
	HasDate    bool
}

// Dates resolves Spanish date expressions relative to a clock.
type Dates struct {
	now func() time.Time
	loc *time.Location
}

// DatesOption configures Dates.
type DatesOption func(*Dates)

// WithNow overrides the clock.
func WithNow(now func() time.Time) DatesOption { return func(d *Dates) { d.now = now } }

// WithLocation sets the time zone "today" is computed in.
func WithLocation(loc *time.Location) DatesOption { return func(d *Dates) { d.loc = loc } }

// NewDates returns a resolver using time.Now in the local zone unless overridden.
func NewDates(opts ...DatesOption) *Dates {
	d := &Dates{now: time.Now, loc: time.Local}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Today returns midnight of the current day in the resolver's location.
func (d *Dates) Today() time.Time {
	n := d.now().In(d.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, d.loc)
}

// Extract returns the first date in text as YYYY-MM-DD. Relative phrases
// ("mañana", "el lunes", "en 3 días") are tried first and the earliest one
// wins; only when none is present are numeric (dd/mm/yyyy, dd-mm-yyyy) and
// worded ("15 de agosto [de 2024]") dates tried, in that order. Two-digit
// years are not recognized.
func (d *Dates) Extract(text string) (string, bool) {
	if spans := d.relative(text, d.Today()); len(spans) > 0 {
		return spans[0].Date.Format(ISODate), true
	}
	for _, p := range absolutePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if iso, ok := p.format(d, text, m); ok {
				return iso, true
			}
		}
	}
	return "", false
}

// Spans returns every date and time expression in text, ordered by position.
// Used to keep them out of reminder titles.
func (d *Dates) Spans(text string) []Span {
	today := d.Today()
	spans := d.relative(text, today)
	for _, p := range absolutePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			spans = append(spans, Span{Start: m[0], End: m[1]})
		}
	}
	spans = append(spans, timeSpans(text)...)
	sortSpans(spans)
	return spans
}

func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})
}

// monthNames maps Spanish month names to month numbers.
var monthNames = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

const monthAlternation = `enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre`

type absolutePattern struct {
	re     *regexp.Regexp
	format func(d *Dates, text string, m []int) (string, bool)
}

var absolutePatterns = []absolutePattern{
	{
		re: regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`),
		format: func(_ *Dates, text string, m []int) (string, bool) {
			day, _ := strconv.Atoi(text[m[2]:m[3]])
			month, _ := strconv.Atoi(text[m[4]:m[5]])
			return formatParts(text[m[6]:m[7]], month, day)
		},
	},
	{
		re: regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+(` + monthAlternation + `)(?:\s+de(?:l)?\s+(\d{4}))?`),
		format: func(d *Dates, text string, m []int) (string, bool) {
			day, _ := strconv.Atoi(text[m[2]:m[3]])
			month := monthNames[strings.ToLower(text[m[4]:m[5]])]
			year := strconv.Itoa(d.Today().Year())
			if m[6] >= 0 {
				year = text[m[6]:m[7]]
			}
			return formatParts(year, int(month), day)
		},
	},
}

// formatParts validates the parts against the calendar and formats them.
// Impossible dates such as 31/02 are rejected rather than normalized.
func formatParts(year string, month, day int) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}
	return t.Format(ISODate), true
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\ba\s+las?\s+\d{1,2}(?:[:.]\d{2})?(?:\s*(?:h|hrs|horas)\b)?`),
	regexp.MustCompile(`(?i)\b(?:por|de)\s+la\s+(?:ma[nñ]ana|tarde|noche)`),
	regexp.MustCompile(`(?i)\ba\s+mediod[ií]a`),
}
