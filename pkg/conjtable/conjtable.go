// Package conjtable extracts conjugation tables from a conjugation-reference
// page: each tense heading owns the first table that follows it, and each
// table row pairs a pronoun label with a form.
package conjtable

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/japaniel/verbdrill/pkg/markup"
	"github.com/japaniel/verbdrill/pkg/verbs"
)

// IncompleteConjugationError names the first required cell a page lacked.
type IncompleteConjugationError struct {
	Infinitive string
	Tense      verbs.Tense
	Person     verbs.Person
}

func (e *IncompleteConjugationError) Error() string {
	return fmt.Sprintf("incomplete conjugation for %s: missing %s %s", e.Infinitive, e.Tense, e.Person)
}

// tenseLabels maps normalized heading text to tenses. Matching is exact.
var tenseLabels = map[string]verbs.Tense{
	"present":               verbs.Present,
	"imperfet":              verbs.Imperfect,
	"futur":                 verbs.Future,
	"condicional":           verbs.Conditional,
	"present de subjuntiu":  verbs.PresentSubjunctive,
	"imperfet de subjuntiu": verbs.ImperfectSubjunctive,
	"imperatiu":             verbs.Imperative,
}

type personLabel struct {
	prefix string
	person verbs.Person
}

// personLabels is checked in order; the first matching prefix wins. Formal
// labels collapse onto the person they conjugate like.
var personLabels = []personLabel{
	{"jo", verbs.Jo},
	{"tu", verbs.Tu},
	{"nosaltres", verbs.Nosaltres},
	{"vosaltres", verbs.Vosaltres},
	{"vós", verbs.Vosaltres},
	{"vostès", verbs.Ells},
	{"elles", verbs.Ells},
	{"ells", verbs.Ells},
	{"vostè", verbs.Ell},
	{"ella", verbs.Ell},
	{"ell", verbs.Ell},
}

var (
	sectionSelector = cascadia.MustCompile("h1, h2, h3, h4, h5, h6, table")
	rowSelector     = cascadia.MustCompile("tr")
)

// Parse reads the page for infinitive and returns its conjugations. Every
// required tense must have all six persons; the imperative is kept when
// present but never required.
func Parse(infinitive string, r io.Reader) (verbs.Conjugations, error) {
	doc, err := markup.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse conjugation page for %s: %w", infinitive, err)
	}

	conj := Extract(doc)
	for _, t := range verbs.RequiredTenses {
		for _, p := range verbs.AllPersons {
			if conj.Form(t, p) == "" {
				return nil, &IncompleteConjugationError{Infinitive: infinitive, Tense: t, Person: p}
			}
		}
	}
	return conj, nil
}

// Extract collects whatever cells the document holds, without any
// completeness check.
func Extract(doc *html.Node) verbs.Conjugations {
	conj := make(verbs.Conjugations)

	var current verbs.Tense
	for _, n := range sectionSelector.MatchAll(doc) {
		if markup.IsHeading(n) {
			current = tenseLabels[strings.ToLower(markup.Text(n))]
			continue
		}
		if current == "" {
			continue
		}
		readTable(conj, current, n)
		current = ""
	}
	return conj
}

func readTable(conj verbs.Conjugations, tense verbs.Tense, table *html.Node) {
	for _, row := range rowSelector.MatchAll(table) {
		cells := markup.Cells(row)
		var label, value string
		switch len(cells) {
		case 0:
			continue
		case 1:
			label, value, _ = strings.Cut(markup.CellText(cells[0]), " ")
		default:
			label, value = markup.Text(cells[0]), markup.CellText(cells[1])
		}

		person, ok := MatchPerson(label)
		if !ok {
			continue
		}
		if conj.Form(tense, person) != "" {
			continue
		}
		if form := CleanForm(value); form != "" {
			conj.Set(tense, person, form)
		}
	}
}

// MatchPerson maps a row label such as "ell/ella/vostè" to a person.
func MatchPerson(label string) (verbs.Person, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	for _, pl := range personLabels {
		if strings.HasPrefix(label, pl.prefix) {
			return pl.person, true
		}
	}
	return "", false
}

// CleanForm drops parenthetical notes, keeps the text before the first
// remaining comma, drops a leading pronoun and collapses whitespace. Dash
// placeholders become "".
func CleanForm(value string) string {
	value = stripParentheticals(value)
	value, _, _ = strings.Cut(value, ",")

	fields := strings.Fields(value)
	if len(fields) > 1 && isPronoun(fields[0]) {
		fields = fields[1:]
	}
	out := strings.Join(fields, " ")
	switch out {
	case "-", "–", "—":
		return ""
	}
	return out
}

func stripParentheticals(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
			b.WriteByte(' ')
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isPronoun reports whether every slash-separated part of word is a
// person label.
func isPronoun(word string) bool {
	for _, part := range strings.Split(strings.ToLower(word), "/") {
		found := false
		for _, pl := range personLabels {
			if part == pl.prefix {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
