package intent

import (
	"context"
	"regexp"
)

// Pattern is one row of the fallback table.
type Pattern struct {
	Label    Label
	Patterns []*regexp.Regexp
}

// Regex is the deterministic fallback matcher. Rows are tried in order and,
// within a row, patterns are tried in order; the first match wins, so rows
// declared earlier shadow overlapping rows declared later.
type Regex struct {
	table []Pattern
}

// NewRegex returns a matcher over table. A nil table uses DefaultPatterns.
func NewRegex(table []Pattern) *Regex {
	if table == nil {
		table = DefaultPatterns()
	}
	return &Regex{table: table}
}

// Name identifies the strategy in a Chain.
func (r *Regex) Name() string { return "regex" }

// Match returns the first matching label, or Unknown.
func (r *Regex) Match(text string) Label {
	for _, row := range r.table {
		for _, p := range row.Patterns {
			if p.MatchString(text) {
				return row.Label
			}
		}
	}
	return Unknown
}

// Classify reports false only when nothing matched.
func (r *Regex) Classify(_ context.Context, text string) (Match, bool) {
	label := r.Match(text)
	if label == Unknown {
		return Match{}, false
	}
	return Match{Label: label, Confidence: 1, Strategy: r.Name()}, true
}

func res(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

// DefaultPatterns returns the built-in Spanish pattern table. Reminder rows
// come first so "hola, recuérdame..." is a reminder, not a greeting.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{CreateReminder, res(
			`record[aá](me|r|rme|rnos)?\s`,
			`recu[eé]rd[ae](me|nos|le)\b`,
			`me\srecuerdes\b`,
			`^[\s¡¿]*recordatorio\s+(para|de|sobre)\s`,
			`crear\s(un\s)?recordatorio`,
			`nueva\starea`,
			`nuevo\sevento`,
			`agregar\s(un\s)?recordatorio`,
			`recordarme\s`,
			`agendar`,
			`programar?\s`,
			`^[\s¡¿]*anota\s`,
		)},
		{ListReminders, res(
			`ver\s(mis\s|tod[oa]s\s(mis\s|los\s|las\s)?)?(recordatorios|tareas)`,
			`mostrar\s(mis\s)?(recordatorios|tareas)`,
			`mu[eé]strame\s(mis\s)?(recordatorios|tareas)`,
			`listar\s(todos\s)?(mis\s|los\s)?recordatorios`,
			`qu[eé]\srecordatorios\stengo`,
			`mis\srecordatorios`,
			`recordatorios\spendientes`,
			`tareas\spendientes`,
			`pr[oó]ximos\srecordatorios`,
		)},
		{Help, res(
			`ayuda\b`,
			`c[oó]mo\sfuncion[a-z]+`,
			`qu[eé]\spuedes\shacer`,
			`para\squ[eé]\ssirves`,
			`instrucciones`,
			`comandos`,
			`c[oó]mo\s(te\s)?uso|c[oó]mo\susarte`,
		)},
		{Weather, res(
			`\bclima\b`,
			`qu[eé]\stiempo\shace`,
			`\bllover\b|\blluvia\b|\bllueve\b`,
			`hace\s(fr[ií]o|calor)`,
			`temperatura`,
		)},
		{Jokes, res(
			`chiste`,
			`algo\sgracioso`,
			`hazme\sre[ií]r`,
		)},
		{TimeDate, res(
			`qu[eé]\shora\ses`,
			`qu[eé]\sd[ií]a\ses\shoy`,
			`qu[eé]\sfecha`,
			`dime\sla\s(hora|fecha)`,
		)},
		{ActivitiesInfo, res(
			`actividades`,
			`qu[eé]\spuedo\shacer`,
			`\bplanes?\b`,
			`eventos\scerca`,
		)},
		{ReservationsHelp, res(
			`reserva(r|ción|cion)?\b`,
			`reservo\b`,
		)},
		{Thanks, res(
			`gracias`,
			`te\slo\sagradezco`,
			`agradecid[oa]`,
		)},
		{Farewell, res(
			`adi[oó]s`,
			`hasta\s(luego|pronto|mañana|la\svista)`,
			`nos\svemos`,
			`\bchao\b|\bchau\b`,
		)},
		{Greeting, res(
			`^[\s¡¿]*(hola|holi|hey|saludos)\b`,
			`buen[oa]s\s(d[ií]as|tardes|noches)`,
			`^[\s¡¿]*qu[eé]\stal[\s?!.,]*$`,
		)},
		{SmallTalk, res(
			`c[oó]mo\sest[aá]s`,
			`qui[eé]n\seres`,
			`c[oó]mo\ste\sllamas`,
			`eres\sun\s(robot|bot|humano)`,
			`me\saburro`,
			`qu[eé]\stal\sest[aá]s`,
		)},
	}
}
