package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shahar-caura/marino/internal/textnorm"
)

// triggers break phrases and are never part of a title.
var triggers = wordSet(
	"recuerdame", "recuerdanos", "recuerdale", "recuerdes", "recuerda", "recordar",
	"recordarme", "recordarnos", "recordatorio", "recordatorios", "crear", "crea",
	"creame", "nuevo", "nueva", "tarea", "evento", "agregar", "agrega", "anadir",
	"anade", "agendar", "agenda", "programar", "programa", "anota", "anotar",
	"apunta", "apuntar", "necesito", "quiero", "tengo", "favor", "porfa", "hola",
	"oye", "urgente", "importante", "critico", "prioridad", "alta", "media", "normal",
)

// functionWords are trimmed from both ends of a phrase.
var functionWords = wordSet(
	"para", "de", "del", "sobre", "que", "el", "la", "los", "las", "un", "una",
	"unos", "unas", "a", "al", "en", "por", "con", "y", "o", "mi", "mis", "me",
	"te", "se", "lo", "le",
)

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)?`)

type token struct {
	start, end int
	folded     string
}

// Phrases splits text into candidate content phrases. Masked spans, trigger
// words and punctuation end a phrase; leading and trailing function words
// are dropped. The returned phrases keep the original spelling.
func Phrases(text string, masked []Span) []string {
	var (
		out   []string
		chunk []token
	)
	flush := func() {
		if p := trimPhrase(text, chunk); p != "" {
			out = append(out, p)
		}
		chunk = chunk[:0]
	}
	prevEnd := 0
	for _, m := range wordRe.FindAllStringIndex(text, -1) {
		tok := token{start: m[0], end: m[1], folded: textnorm.Fold(text[m[0]:m[1]])}
		switch {
		case overlaps(masked, tok.start, tok.end):
			flush()
		case triggers[tok.folded]:
			flush()
		default:
			if len(chunk) > 0 && (strings.TrimSpace(text[prevEnd:tok.start]) != "" || overlaps(masked, prevEnd, tok.start)) {
				flush()
			}
			chunk = append(chunk, tok)
		}
		prevEnd = tok.end
	}
	flush()
	return out
}

func overlaps(spans []Span, start, end int) bool {
	for _, s := range spans {
		if s.Start < end && start < s.End {
			return true
		}
	}
	return false
}

func trimPhrase(text string, toks []token) string {
	for len(toks) > 0 && functionWords[toks[0].folded] {
		toks = toks[1:]
	}
	for len(toks) > 0 && functionWords[toks[len(toks)-1].folded] {
		toks = toks[:len(toks)-1]
	}
	if len(toks) == 0 {
		return ""
	}
	return text[toks[0].start:toks[len(toks)-1].end]
}

// longest returns the phrase with the most runes; ties keep the first.
func longest(phrases []string) string {
	best := ""
	for _, p := range phrases {
		if utf8.RuneCountInString(p) > utf8.RuneCountInString(best) {
			best = p
		}
	}
	return best
}
