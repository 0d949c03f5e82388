package practice

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Grade is the outcome of one answer.
type Grade struct {
	Correct  bool // matches ignoring accents and case
	Exact    bool // matches including accents
	Expected string
}

// GradeAnswer compares input with expected. Accents, case and surrounding
// or repeated whitespace are not held against the user; Exact tells whether
// the accents were right too.
func GradeAnswer(input, expected string) Grade {
	in, want := canonical(input), canonical(expected)
	return Grade{
		Correct:  want != "" && Fold(in) == Fold(want),
		Exact:    want != "" && in == want,
		Expected: expected,
	}
}

func canonical(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFC.String(s)), " "))
}

// Fold strips combining marks so "parlàvem" and "parlavem" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
