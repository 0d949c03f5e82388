// Package verbs holds the canonical verb-conjugation data model shared by the
// dataset builder and the practice engine.
package verbs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Person is one of the six grammatical persons.
type Person string

const (
	Jo        Person = "jo"
	Tu        Person = "tu"
	Ell       Person = "ell"
	Nosaltres Person = "nosaltres"
	Vosaltres Person = "vosaltres"
	Ells      Person = "ells"
)

// AllPersons lists the persons in canonical order.
var AllPersons = []Person{Jo, Tu, Ell, Nosaltres, Vosaltres, Ells}

// Tense is one of the fixed tense/mood categories.
type Tense string

const (
	Present              Tense = "present"
	Imperfect            Tense = "imperfect"
	Future               Tense = "future"
	Conditional          Tense = "conditional"
	PresentSubjunctive   Tense = "presentSubjunctive"
	ImperfectSubjunctive Tense = "imperfectSubjunctive"
	Imperative           Tense = "imperative"
)

// AllTenses lists the tenses in canonical order.
var AllTenses = []Tense{Present, Imperfect, Future, Conditional, PresentSubjunctive, ImperfectSubjunctive, Imperative}

// RequiredTenses are the tenses whose cells must all be present for an
// irregular verb. The imperative is exempt because defective verbs may
// legitimately lack some of its forms.
var RequiredTenses = []Tense{Present, Imperfect, Future, Conditional, PresentSubjunctive, ImperfectSubjunctive}

// Group is the conjugation class derived from the infinitive ending.
type Group string

const (
	GroupAr Group = "ar"
	GroupEr Group = "er"
	GroupIr Group = "ir"
)

// Valid reports whether g is one of the known groups.
func (g Group) Valid() bool {
	return g == GroupAr || g == GroupEr || g == GroupIr
}

// ParsePerson returns the Person named s.
func ParsePerson(s string) (Person, bool) {
	for _, p := range AllPersons {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// ParseTense returns the Tense named s.
func ParseTense(s string) (Tense, bool) {
	for _, t := range AllTenses {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Conjugations maps tense -> person -> surface form.
type Conjugations map[Tense]map[Person]string

// Form returns the explicit form for (tense, person), or "" if absent.
func (c Conjugations) Form(t Tense, p Person) string {
	if c == nil {
		return ""
	}
	return c[t][p]
}

// Set stores a form, allocating the tense row as needed.
func (c Conjugations) Set(t Tense, p Person, form string) {
	row, ok := c[t]
	if !ok {
		row = make(map[Person]string, len(AllPersons))
		c[t] = row
	}
	row[p] = form
}

// VerbEntry is one lexical verb in the canonical dataset.
type VerbEntry struct {
	Infinitive    string       `json:"infinitive"`
	Translation   string       `json:"translation"`
	IsRegular     bool         `json:"isRegular"`
	MorphGroup    Group        `json:"morphGroup"`
	FrequencyRank int          `json:"frequencyRank"`
	Conjugations  Conjugations `json:"conjugations,omitempty"`
}

// Dataset is the ordered canonical verb list.
type Dataset []VerbEntry

// LoadDataset reads a canonical dataset JSON file.
func LoadDataset(path string) (Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ds Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return ds, nil
}

// SaveDataset writes ds as an indented UTF-8 JSON array.
func SaveDataset(path string, ds Dataset) error {
	if ds == nil {
		ds = Dataset{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// NormalizeLemma lowercases s and collapses internal whitespace.
func NormalizeLemma(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeTranslation turns a raw gloss into the "to ..." infinitive form.
func NormalizeTranslation(gloss string) string {
	g := NormalizeLemma(gloss)
	if g == "" {
		return ""
	}
	if strings.HasPrefix(g, "to ") {
		return g
	}
	return "to " + g
}
