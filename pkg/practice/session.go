package practice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// ErrNoQuestion is returned by Answer before the first call to Next.
var ErrNoQuestion = errors.New("no current question")

// Session drives one practice run: it owns the filters, the current prompt
// and the last key. It is not safe for concurrent use.
type Session struct {
	dataset verbs.Dataset
	filters FilterState
	rng     *rand.Rand

	current    Instance
	hasCurrent bool
	lastKey    string
}

// NewSession validates filters against ds. A configuration without any
// valid prompt is rejected with ErrConfigurationExhausted.
func NewSession(ds verbs.Dataset, filters FilterState, rng *rand.Rand) (*Session, error) {
	filters = filters.Clone()
	if err := checkFilters(ds, filters); err != nil {
		return nil, err
	}
	return &Session{dataset: ds, filters: filters, rng: rng}, nil
}

// Filters returns a copy of the active filters.
func (s *Session) Filters() FilterState { return s.filters.Clone() }

// Current returns the prompt on display, if any.
func (s *Session) Current() (Instance, bool) { return s.current, s.hasCurrent }

// Next replaces the current prompt with a different one. When the only valid
// prompt is the one just shown, ErrConfigurationExhausted is returned and the
// current prompt stays.
func (s *Session) Next() (Instance, error) {
	inst, ok := PickNext(s.dataset, s.filters, s.lastKey, s.rng)
	if !ok {
		return Instance{}, ErrConfigurationExhausted
	}
	s.current, s.hasCurrent = inst, true
	s.lastKey = inst.Key
	return inst, nil
}

// TogglePerson flips one person on or off.
func (s *Session) TogglePerson(p verbs.Person) error {
	next := s.filters.Clone()
	if next.Persons[p] {
		delete(next.Persons, p)
	} else {
		next.Persons[p] = true
	}
	return s.apply(next)
}

// ToggleTense flips one tense on or off.
func (s *Session) ToggleTense(t verbs.Tense) error {
	next := s.filters.Clone()
	if next.Tenses[t] {
		delete(next.Tenses, t)
	} else {
		next.Tenses[t] = true
	}
	return s.apply(next)
}

// ToggleRegular flips whether regular verbs are asked.
func (s *Session) ToggleRegular() error {
	next := s.filters.Clone()
	next.Regular = !next.Regular
	return s.apply(next)
}

// ToggleIrregular flips whether irregular verbs are asked.
func (s *Session) ToggleIrregular() error {
	next := s.filters.Clone()
	next.Irregular = !next.Irregular
	return s.apply(next)
}

// SetRankLimit restricts prompts to verbs ranked at or above limit.
func (s *Session) SetRankLimit(limit int) error {
	next := s.filters.Clone()
	next.RankLimit = limit
	return s.apply(next)
}

// apply installs next unless it leaves no valid prompt. The current prompt
// is replaced only when next rules it out.
func (s *Session) apply(next FilterState) error {
	if err := checkFilters(s.dataset, next); err != nil {
		return err
	}
	s.filters = next
	if s.hasCurrent && !IsStillValid(s.current, s.filters) {
		if _, err := s.Next(); err != nil {
			return err
		}
	}
	return nil
}

func checkFilters(ds verbs.Dataset, f FilterState) error {
	if !slices.Contains(RankLimits, f.RankLimit) {
		return fmt.Errorf("rank limit %d not one of %v", f.RankLimit, RankLimits)
	}
	if len(f.Persons) == 0 || len(f.Tenses) == 0 || !f.Regular && !f.Irregular {
		return ErrConfigurationExhausted
	}
	if !HasAnyValidInstance(ds, f) {
		return ErrConfigurationExhausted
	}
	return nil
}

// Answer grades text against the current prompt.
func (s *Session) Answer(text string) (Grade, error) {
	if !s.hasCurrent {
		return Grade{}, ErrNoQuestion
	}
	return GradeAnswer(text, s.current.Form), nil
}
