package practice

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

func testDataset() verbs.Dataset {
	anar := verbs.RegularTable("anar", verbs.GroupAr)
	anar.Set(verbs.Present, verbs.Jo, "vaig")
	anar.Set(verbs.Present, verbs.Tu, "vas")
	delete(anar, verbs.Imperative)
	return verbs.Dataset{
		{Infinitive: "anar", Translation: "to go", MorphGroup: verbs.GroupAr, FrequencyRank: 1, Conjugations: anar},
		{Infinitive: "parlar", Translation: "to speak", IsRegular: true, MorphGroup: verbs.GroupAr, FrequencyRank: 2},
		{Infinitive: "perdre", Translation: "to lose", IsRegular: true, MorphGroup: verbs.GroupEr, FrequencyRank: 30},
	}
}

func only(p verbs.Person, tenses ...verbs.Tense) FilterState {
	f := DefaultFilters()
	f.Persons = map[verbs.Person]bool{p: true}
	f.Tenses = map[verbs.Tense]bool{}
	for _, t := range tenses {
		f.Tenses[t] = true
	}
	return f
}

func newRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestListValidInstancesDeterministic(t *testing.T) {
	ds := testDataset()
	f := DefaultFilters()

	first := ListValidInstances(ds, f)
	second := ListValidInstances(ds, f)
	require.Equal(t, first, second)
	assert.Len(t, first, 3*len(verbs.RequiredTenses)*len(verbs.AllPersons))

	assert.Equal(t, "anar|jo|present", first[0].Key)
	assert.Equal(t, "vaig", first[0].Form)
	assert.Equal(t, "anar|tu|present", first[1].Key)
	assert.Equal(t, "anar|jo|imperfect", first[6].Key)
}

func TestListValidInstancesFilters(t *testing.T) {
	ds := testDataset()

	f := only(verbs.Jo, verbs.Present)
	f.Irregular = false
	f.RankLimit = 25
	got := ListValidInstances(ds, f)
	require.Len(t, got, 1)
	assert.Equal(t, "parlo", got[0].Form)

	// Imperative jo is defective: never listed.
	f = only(verbs.Jo, verbs.Imperative)
	assert.Empty(t, ListValidInstances(ds, f))
	assert.False(t, HasAnyValidInstance(ds, f))
}

func TestPickNextNeverRepeats(t *testing.T) {
	ds := testDataset()
	f := only(verbs.Tu, verbs.Present, verbs.Future)
	rng := newRand()

	last := ""
	for i := 0; i < 200; i++ {
		inst, ok := PickNext(ds, f, last, rng)
		require.True(t, ok)
		assert.NotEqual(t, last, inst.Key)
		last = inst.Key
	}
}

func TestPickNextSingleInstance(t *testing.T) {
	ds := testDataset()
	f := only(verbs.Jo, verbs.Present)
	f.Regular = false

	inst, ok := PickNext(ds, f, "", newRand())
	require.True(t, ok)
	assert.Equal(t, "anar|jo|present", inst.Key)

	_, ok = PickNext(ds, f, inst.Key, newRand())
	assert.False(t, ok, "the only valid prompt was just shown")
	assert.True(t, HasAnyValidInstance(ds, f))
}

func TestPickNextNilRand(t *testing.T) {
	_, ok := PickNext(testDataset(), DefaultFilters(), "", nil)
	assert.True(t, ok)
}

func TestHasAnyMatchesList(t *testing.T) {
	ds := testDataset()
	for _, p := range verbs.AllPersons {
		for _, tense := range verbs.AllTenses {
			for _, limit := range RankLimits {
				for _, types := range [][2]bool{{true, true}, {true, false}, {false, true}, {false, false}} {
					f := only(p, tense)
					f.RankLimit = limit
					f.Regular, f.Irregular = types[0], types[1]
					assert.Equal(t, len(ListValidInstances(ds, f)) > 0, HasAnyValidInstance(ds, f),
						"%s %s limit=%d types=%v", p, tense, limit, types)
				}
			}
		}
	}
	assert.False(t, HasAnyValidInstance(nil, DefaultFilters()))
}

func TestIsStillValid(t *testing.T) {
	ds := testDataset()
	inst, ok := PickNext(ds, only(verbs.Ell, verbs.Conditional), "", newRand())
	require.True(t, ok)

	assert.True(t, IsStillValid(inst, DefaultFilters()))
	assert.False(t, IsStillValid(inst, only(verbs.Jo, verbs.Conditional)))
	assert.False(t, IsStillValid(inst, only(verbs.Ell, verbs.Future)))
}
