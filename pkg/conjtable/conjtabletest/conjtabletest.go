// Package conjtabletest renders conjugation pages for tests.
package conjtabletest

import (
	"fmt"
	"strings"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// Headings are the page headings used for each tense.
var Headings = map[verbs.Tense]string{
	verbs.Present:              "Present",
	verbs.Imperfect:            "Imperfet",
	verbs.Future:               "Futur",
	verbs.Conditional:          "Condicional",
	verbs.PresentSubjunctive:   "Present de subjuntiu",
	verbs.ImperfectSubjunctive: "Imperfet de subjuntiu",
	verbs.Imperative:           "Imperatiu",
}

var labels = map[verbs.Person]string{
	verbs.Jo:        "jo",
	verbs.Tu:        "tu",
	verbs.Ell:       "ell/ella/vostè",
	verbs.Nosaltres: "nosaltres",
	verbs.Vosaltres: "vosaltres/vós",
	verbs.Ells:      "ells/elles/vostès",
}

// Page renders conj as an HTML page with one h3 and one two-column table
// per tense. Missing cells are left out of the table.
func Page(infinitive string, conj verbs.Conjugations) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>\n", infinitive)
	fmt.Fprintf(&b, "<h1>Conjugació del verb %s</h1>\n<h2>Indicatiu</h2>\n", infinitive)
	for _, t := range verbs.AllTenses {
		row, ok := conj[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "<h3>%s</h3>\n<table>\n", Headings[t])
		for _, p := range verbs.AllPersons {
			if f := row[p]; f != "" {
				fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>\n", labels[p], f)
			}
		}
		b.WriteString("</table>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}
