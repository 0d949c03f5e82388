package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

func TestNewSessionRejectsEmptyConfiguration(t *testing.T) {
	_, err := NewSession(testDataset(), only(verbs.Jo, verbs.Imperative), newRand())
	assert.ErrorIs(t, err, ErrConfigurationExhausted)

	_, err = NewSession(nil, DefaultFilters(), newRand())
	assert.ErrorIs(t, err, ErrConfigurationExhausted)
}

func TestToggleLastPersonRejected(t *testing.T) {
	s, err := NewSession(testDataset(), only(verbs.Jo, verbs.Present), newRand())
	require.NoError(t, err)

	before := s.Filters()
	assert.ErrorIs(t, s.TogglePerson(verbs.Jo), ErrConfigurationExhausted)
	assert.Equal(t, before, s.Filters())

	assert.ErrorIs(t, s.ToggleTense(verbs.Present), ErrConfigurationExhausted)
	assert.Equal(t, before, s.Filters())
}

func TestToggleLastVerbTypeRejected(t *testing.T) {
	s, err := NewSession(testDataset(), DefaultFilters(), newRand())
	require.NoError(t, err)

	require.NoError(t, s.ToggleRegular())
	assert.ErrorIs(t, s.ToggleIrregular(), ErrConfigurationExhausted)
	f := s.Filters()
	assert.False(t, f.Regular)
	assert.True(t, f.Irregular)
}

func TestToggleLeavingNoInstancesRejected(t *testing.T) {
	// anar has no imperative, so dropping present from {present, imperative}
	// with only irregular verbs leaves nothing to ask.
	f := only(verbs.Tu, verbs.Present, verbs.Imperative)
	f.Regular = false
	s, err := NewSession(testDataset(), f, newRand())
	require.NoError(t, err)

	assert.ErrorIs(t, s.ToggleTense(verbs.Present), ErrConfigurationExhausted)
	assert.True(t, s.Filters().Tenses[verbs.Present])
}

func TestFilterChangeReplacesOnlyInvalidQuestion(t *testing.T) {
	s, err := NewSession(testDataset(), only(verbs.Jo, verbs.Present, verbs.Future), newRand())
	require.NoError(t, err)

	cur, err := s.Next()
	require.NoError(t, err)

	// Enabling another person keeps the question.
	require.NoError(t, s.TogglePerson(verbs.Tu))
	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, cur.Key, got.Key)

	// Disabling its tense replaces it.
	require.NoError(t, s.ToggleTense(cur.Tense))
	got, _ = s.Current()
	assert.NotEqual(t, cur.Tense, got.Tense)
	assert.True(t, IsStillValid(got, s.Filters()))
}

func TestSetRankLimit(t *testing.T) {
	s, err := NewSession(testDataset(), DefaultFilters(), newRand())
	require.NoError(t, err)

	assert.Error(t, s.SetRankLimit(10))
	require.NoError(t, s.SetRankLimit(25))
	for i := 0; i < 50; i++ {
		inst, err := s.Next()
		require.NoError(t, err)
		assert.NotEqual(t, "perdre", inst.Verb.Infinitive)
	}
}

func TestSessionNextSingleInstance(t *testing.T) {
	f := only(verbs.Jo, verbs.Present)
	f.Regular = false
	s, err := NewSession(testDataset(), f, newRand())
	require.NoError(t, err)

	_, err = s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	assert.ErrorIs(t, err, ErrConfigurationExhausted)
	_, ok := s.Current()
	assert.True(t, ok)
}

func TestSessionAnswer(t *testing.T) {
	f := only(verbs.Nosaltres, verbs.Imperfect)
	f.Irregular = false
	f.RankLimit = 25
	s, err := NewSession(testDataset(), f, newRand())
	require.NoError(t, err)

	_, err = s.Answer("x")
	assert.ErrorIs(t, err, ErrNoQuestion)

	inst, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, "parlàvem", inst.Form)

	g, err := s.Answer("  Parlavem ")
	require.NoError(t, err)
	assert.True(t, g.Correct)
	assert.False(t, g.Exact)

	g, _ = s.Answer("parlàvem")
	assert.True(t, g.Correct)
	assert.True(t, g.Exact)

	g, _ = s.Answer("parlem")
	assert.False(t, g.Correct)
	assert.Equal(t, "parlàvem", g.Expected)
}

func TestGradeAnswer(t *testing.T) {
	assert.True(t, GradeAnswer("comencem", "començem").Correct)
	assert.True(t, GradeAnswer("PARLÉS", "parlés").Exact)
	assert.False(t, GradeAnswer("", "").Correct)
	assert.Equal(t, "perdria", Fold("perdria"))
}
