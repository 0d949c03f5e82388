package verbs

import "strings"

// endings holds the six suffixes of one tense, in AllPersons order.
type endings [6]string

var presentEndings = map[Group]endings{
	GroupAr: {"o", "es", "a", "em", "eu", "en"},
	GroupEr: {"o", "s", "", "em", "eu", "en"},
	GroupIr: {"o", "s", "", "im", "iu", "en"},
}

var imperfectEndings = map[Group]endings{
	GroupAr: {"ava", "aves", "ava", "àvem", "àveu", "aven"},
	GroupEr: {"ia", "ies", "ia", "íem", "íeu", "ien"},
	GroupIr: {"ia", "ies", "ia", "íem", "íeu", "ien"},
}

var presentSubjunctiveEndings = map[Group]endings{
	GroupAr: {"i", "is", "i", "em", "eu", "in"},
	GroupEr: {"i", "is", "i", "em", "eu", "in"},
	GroupIr: {"i", "is", "i", "im", "iu", "in"},
}

var imperfectSubjunctiveEndings = map[Group]endings{
	GroupAr: {"és", "essis", "és", "éssim", "ésseu", "essin"},
	GroupEr: {"és", "essis", "és", "éssim", "ésseu", "essin"},
	GroupIr: {"ís", "issis", "ís", "íssim", "íssiu", "issin"},
}

// The first-person imperative does not exist; an empty ending marks the gap.
var imperativeEndings = map[Group]endings{
	GroupAr: {"", "a", "i", "em", "eu", "in"},
	GroupEr: {"", "", "i", "em", "eu", "in"},
	GroupIr: {"", "", "i", "im", "iu", "in"},
}

var (
	futureEndings      = endings{"é", "às", "à", "em", "eu", "an"}
	conditionalEndings = endings{"ia", "ies", "ia", "íem", "íeu", "ien"}
)

// GroupOf derives the conjugation group from the infinitive ending.
func GroupOf(infinitive string) Group {
	switch {
	case strings.HasSuffix(infinitive, "ar"):
		return GroupAr
	case strings.HasSuffix(infinitive, "ir"):
		return GroupIr
	default:
		return GroupEr
	}
}

// RegularForm returns the formulaic form of a regular verb. It never fails;
// an unknown person or tense yields "".
func RegularForm(infinitive string, group Group, tense Tense, person Person) string {
	idx := personIndex(person)
	if idx < 0 || infinitive == "" {
		return ""
	}
	if !group.Valid() {
		group = GroupOf(infinitive)
	}

	switch tense {
	case Present:
		return stem(infinitive) + presentEndings[group][idx]
	case Imperfect:
		return stem(infinitive) + imperfectEndings[group][idx]
	case PresentSubjunctive:
		return stem(infinitive) + presentSubjunctiveEndings[group][idx]
	case ImperfectSubjunctive:
		return stem(infinitive) + imperfectSubjunctiveEndings[group][idx]
	case Imperative:
		if person == Jo {
			return ""
		}
		return stem(infinitive) + imperativeEndings[group][idx]
	case Future:
		return futureStem(infinitive) + futureEndings[idx]
	case Conditional:
		return futureStem(infinitive) + conditionalEndings[idx]
	}
	return ""
}

// RegularTable synthesizes the full table of a regular verb.
func RegularTable(infinitive string, group Group) Conjugations {
	c := make(Conjugations, len(AllTenses))
	for _, t := range AllTenses {
		for _, p := range AllPersons {
			if f := RegularForm(infinitive, group, t, p); f != "" {
				c.Set(t, p, f)
			}
		}
	}
	return c
}

// ResolveForm looks the form up in the explicit table first and falls back to
// the generator for regular verbs only. Irregular verbs never get a
// fabricated form.
func ResolveForm(v VerbEntry, tense Tense, person Person) string {
	if f := v.Conjugations.Form(tense, person); f != "" {
		return f
	}
	if !v.IsRegular {
		return ""
	}
	return RegularForm(v.Infinitive, v.MorphGroup, tense, person)
}

func personIndex(p Person) int {
	for i, q := range AllPersons {
		if q == p {
			return i
		}
	}
	return -1
}

// stem drops the two-letter infinitive ending.
func stem(infinitive string) string {
	r := []rune(infinitive)
	if len(r) < 2 {
		return infinitive
	}
	return string(r[:len(r)-2])
}

// futureStem is the infinitive, with the final e of -re verbs elided (perdre -> perdr).
func futureStem(infinitive string) string {
	if strings.HasSuffix(infinitive, "re") {
		return strings.TrimSuffix(infinitive, "e")
	}
	return infinitive
}
