// Package validate checks a canonical dataset before it reaches the practice
// engine.
package validate

import (
	"fmt"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// Issue is one structural problem with a verb.
type Issue struct {
	Infinitive string
	Detail     string
}

func (i Issue) String() string {
	return i.Infinitive + ": " + i.Detail
}

// Validate returns every issue found in ds, or an empty slice. Irregular
// verbs must carry every required cell in their explicit table; regular
// verbs must resolve every required cell. The imperative is never checked.
func Validate(ds verbs.Dataset) []Issue {
	issues := []Issue{}
	add := func(inf, format string, args ...any) {
		issues = append(issues, Issue{Infinitive: inf, Detail: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool, len(ds))
	prevRank := 0
	for i, v := range ds {
		name := v.Infinitive
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			add(name, "missing infinitive")
		} else if seen[v.Infinitive] {
			add(name, "duplicate infinitive")
		}
		seen[v.Infinitive] = true

		if v.Translation == "" {
			add(name, "missing translation")
		}
		switch {
		case !v.MorphGroup.Valid():
			add(name, "invalid morphGroup %q", v.MorphGroup)
		case v.Infinitive != "" && v.MorphGroup != verbs.GroupOf(v.Infinitive):
			add(name, "morphGroup %s does not match infinitive ending (want %s)", v.MorphGroup, verbs.GroupOf(v.Infinitive))
		}
		if v.FrequencyRank <= 0 {
			add(name, "frequencyRank must be positive, got %d", v.FrequencyRank)
		} else if v.FrequencyRank <= prevRank {
			add(name, "frequencyRank %d not greater than previous %d", v.FrequencyRank, prevRank)
		}
		if v.FrequencyRank > 0 {
			prevRank = v.FrequencyRank
		}

		for _, t := range verbs.RequiredTenses {
			for _, p := range verbs.AllPersons {
				var form string
				if v.IsRegular {
					form = verbs.ResolveForm(v, t, p)
				} else {
					form = v.Conjugations.Form(t, p)
				}
				if form == "" {
					add(name, "missing %s %s", t, p)
				}
			}
		}
	}
	return issues
}
