package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shahar-caura/marino/internal/textnorm"
)

// rule is one relative-date production. resolve receives the submatch indexes
// of re and today's midnight and returns the resolved day.
type rule struct {
	re      *regexp.Regexp
	resolve func(d *Dates, text string, m []int, today time.Time) (time.Time, bool)
}

var numberWords = map[string]int{
	"un": 1, "una": 1, "uno": 1, "dos": 2, "tres": 3, "cuatro": 4, "cinco": 5,
	"seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10, "quince": 15,
}

var weekdays = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
}

func group(text string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return text[m[2*n]:m[2*n+1]]
}

func fixed(days int) func(*Dates, string, []int, time.Time) (time.Time, bool) {
	return func(_ *Dates, _ string, _ []int, today time.Time) (time.Time, bool) {
		return today.AddDate(0, 0, days), true
	}
}

// "mañana" also means "morning": inside "esta mañana" the longer span wins and
// inside "por la mañana" it is a time of day, see relative.
var rules = []rule{
	{regexp.MustCompile(`(?i)\bpasado\s+ma[nñ]ana`), fixed(2)},
	{regexp.MustCompile(`(?i)\besta\s+(?:misma\s+)?(?:ma[nñ]ana|tarde|noche)`), fixed(0)},
	{regexp.MustCompile(`(?i)\bhoy\b`), fixed(0)},
	{regexp.MustCompile(`(?i)\bma[nñ]ana\b`), fixed(1)},
	{
		regexp.MustCompile(`(?i)\b(?:(el|este|del)\s+)?(?:pr[oó]ximo\s+)?(lunes|martes|mi[eé]rcoles|jueves|viernes|s[aá]bado|domingo)(?:\s+(?:que\s+viene|pr[oó]ximo))?\b`),
		func(_ *Dates, text string, m []int, today time.Time) (time.Time, bool) {
			wd, ok := weekdays[textnorm.Fold(group(text, m, 2))]
			if !ok {
				return time.Time{}, false
			}
			diff := (int(wd) - int(today.Weekday()) + 7) % 7
			if diff == 0 && strings.ToLower(group(text, m, 1)) != "este" {
				diff = 7
			}
			return today.AddDate(0, 0, diff), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(?:en|dentro\s+de)\s+(\d{1,3}|una?|uno|dos|tres|cuatro|cinco|seis|siete|ocho|nueve|diez|quince)\s+(d[ií]as?|semanas?|mes(?:es)?)\b`),
		func(_ *Dates, text string, m []int, today time.Time) (time.Time, bool) {
			raw := strings.ToLower(group(text, m, 1))
			n, err := strconv.Atoi(raw)
			if err != nil {
				n = numberWords[raw]
			}
			if n <= 0 {
				return time.Time{}, false
			}
			switch unit := textnorm.Fold(group(text, m, 2)); {
			case strings.HasPrefix(unit, "dia"):
				return today.AddDate(0, 0, n), true
			case strings.HasPrefix(unit, "semana"):
				return today.AddDate(0, 0, 7*n), true
			default:
				return today.AddDate(0, n, 0), true
			}
		},
	},
	{regexp.MustCompile(`(?i)\b(?:la\s+)?(?:semana\s+que\s+viene|pr[oó]xima\s+semana)`), fixed(7)},
	{
		regexp.MustCompile(`(?i)\b(?:el\s+)?(?:mes\s+que\s+viene|pr[oó]ximo\s+mes)`),
		func(_ *Dates, _ string, _ []int, today time.Time) (time.Time, bool) {
			return today.AddDate(0, 1, 0), true
		},
	},
	{
		regexp.MustCompile(`(?i)\b(?:el|del)\s+(?:d[ií]a\s+)?(\d{1,2})\b`),
		func(_ *Dates, text string, m []int, today time.Time) (time.Time, bool) {
			if continuesAsDate(text[m[1]:]) {
				return time.Time{}, false
			}
			day, _ := strconv.Atoi(group(text, m, 1))
			return nextDayOfMonth(today, day)
		},
	},
}

var absoluteTail = regexp.MustCompile(`(?i)^(?:\s*[/\-:.]|\s+de\s+(?:` + monthAlternation + `)|\s*(?:h|hrs|horas)\b)`)

// continuesAsDate reports whether the text after "el 15" makes it part of an
// absolute date or a time, which the fallback patterns handle instead.
func continuesAsDate(rest string) bool {
	return absoluteTail.MatchString(rest)
}

// nextDayOfMonth returns the next date, today included, whose day of month is day.
func nextDayOfMonth(today time.Time, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	for i := 0; i < 12; i++ {
		first := time.Date(today.Year(), today.Month()+time.Month(i), 1, 0, 0, 0, 0, today.Location())
		candidate := first.AddDate(0, 0, day-1)
		if candidate.Month() != first.Month() {
			continue // e.g. the 31st in a 30-day month
		}
		if !candidate.Before(today) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// relative runs every grammar rule and returns the resolved spans, earliest
// first; at the same start the longer span comes first. Spans lying inside a
// time-of-day expression are ignored.
func (d *Dates) relative(text string, today time.Time) []Span {
	times := timeSpans(text)
	var spans []Span
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
			if within(times, m[0], m[1]) {
				continue
			}
			date, ok := r.resolve(d, text, m, today)
			if !ok {
				continue
			}
			spans = append(spans, Span{Start: m[0], End: m[1], Date: date, HasDate: true})
		}
	}
	sortSpans(spans)
	return dropContained(spans)
}

func timeSpans(text string) []Span {
	var out []Span
	for _, re := range timePatterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			out = append(out, Span{Start: m[0], End: m[1]})
		}
	}
	return out
}

func within(spans []Span, start, end int) bool {
	for _, s := range spans {
		if s.Start <= start && end <= s.End {
			return true
		}
	}
	return false
}

// dropContained removes spans nested inside an earlier, longer one, so the
// "mañana" inside "pasado mañana" or "esta mañana" does not count on its own.
func dropContained(spans []Span) []Span {
	out := spans[:0]
	end := -1
	for _, s := range spans {
		if s.End <= end {
			continue
		}
		out = append(out, s)
		end = max(end, s.End)
	}
	return out
}
