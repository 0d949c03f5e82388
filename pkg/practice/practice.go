// Package practice selects conjugation prompts from a dataset under a set of
// user filters. Everything here is pure; the only session memory is the key
// of the last prompt shown.
package practice

import (
	"errors"
	"math/rand/v2"
	"slices"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// ErrConfigurationExhausted means the filters leave no prompt to show.
var ErrConfigurationExhausted = errors.New("no valid prompt for the current filters")

// RankLimits are the allowed frequency cut-offs. 0 means no limit.
var RankLimits = []int{0, 25, 50, 100, 200}

// FilterState is the user's current practice configuration.
type FilterState struct {
	Persons   map[verbs.Person]bool
	Tenses    map[verbs.Tense]bool
	Regular   bool
	Irregular bool
	RankLimit int
}

// DefaultFilters enables every person, every required tense and both verb
// types, with no rank limit.
func DefaultFilters() FilterState {
	f := FilterState{
		Persons:   make(map[verbs.Person]bool, len(verbs.AllPersons)),
		Tenses:    make(map[verbs.Tense]bool, len(verbs.AllTenses)),
		Regular:   true,
		Irregular: true,
	}
	for _, p := range verbs.AllPersons {
		f.Persons[p] = true
	}
	for _, t := range verbs.RequiredTenses {
		f.Tenses[t] = true
	}
	return f
}

// Clone returns a deep copy of f.
func (f FilterState) Clone() FilterState {
	c := f
	c.Persons = make(map[verbs.Person]bool, len(f.Persons))
	for p, on := range f.Persons {
		if on {
			c.Persons[p] = true
		}
	}
	c.Tenses = make(map[verbs.Tense]bool, len(f.Tenses))
	for t, on := range f.Tenses {
		if on {
			c.Tenses[t] = true
		}
	}
	return c
}

func (f FilterState) allowsVerb(v verbs.VerbEntry) bool {
	if v.IsRegular && !f.Regular || !v.IsRegular && !f.Irregular {
		return false
	}
	return f.RankLimit <= 0 || v.FrequencyRank <= f.RankLimit
}

// Instance is one (verb, person, tense) prompt with its expected answer.
type Instance struct {
	Verb   verbs.VerbEntry
	Person verbs.Person
	Tense  verbs.Tense
	Form   string
	Key    string
}

// Key identifies a prompt as "infinitive|person|tense".
func Key(infinitive string, p verbs.Person, t verbs.Tense) string {
	return infinitive + "|" + string(p) + "|" + string(t)
}

// ListValidInstances returns every prompt the filters allow, ordered by verb
// (dataset order), then tense, then person, in canonical order. Cells that
// resolve to "" are skipped.
func ListValidInstances(ds verbs.Dataset, f FilterState) []Instance {
	var out []Instance
	for _, v := range ds {
		if !f.allowsVerb(v) {
			continue
		}
		for _, t := range verbs.AllTenses {
			if !f.Tenses[t] {
				continue
			}
			for _, p := range verbs.AllPersons {
				if !f.Persons[p] {
					continue
				}
				form := verbs.ResolveForm(v, t, p)
				if form == "" {
					continue
				}
				out = append(out, Instance{Verb: v, Person: p, Tense: t, Form: form, Key: Key(v.Infinitive, p, t)})
			}
		}
	}
	return out
}

// PickNext samples uniformly from the valid prompts other than lastKey. It
// reports false when nothing is left, including when the only valid prompt
// is lastKey itself. A nil rng uses the global source.
func PickNext(ds verbs.Dataset, f FilterState, lastKey string, rng *rand.Rand) (Instance, bool) {
	pool := slices.DeleteFunc(ListValidInstances(ds, f), func(in Instance) bool {
		return in.Key == lastKey
	})
	if len(pool) == 0 {
		return Instance{}, false
	}
	if rng == nil {
		return pool[rand.IntN(len(pool))], true
	}
	return pool[rng.IntN(len(pool))], true
}

// IsStillValid reports whether inst would still be listed under f.
func IsStillValid(inst Instance, f FilterState) bool {
	return f.allowsVerb(inst.Verb) &&
		f.Tenses[inst.Tense] &&
		f.Persons[inst.Person] &&
		verbs.ResolveForm(inst.Verb, inst.Tense, inst.Person) != ""
}

// HasAnyValidInstance reports whether ListValidInstances would be non-empty.
func HasAnyValidInstance(ds verbs.Dataset, f FilterState) bool {
	for _, v := range ds {
		if !f.allowsVerb(v) {
			continue
		}
		for _, t := range verbs.AllTenses {
			if !f.Tenses[t] {
				continue
			}
			for _, p := range verbs.AllPersons {
				if f.Persons[p] && verbs.ResolveForm(v, t, p) != "" {
					return true
				}
			}
		}
	}
	return false
}
