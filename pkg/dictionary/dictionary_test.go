package dictionary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teiHeader = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body>`

const teiFooter = `</body></text></TEI>`

func entry(orth, pos, quote string) string {
	return `<entry><form type="lemma"><orth>` + orth + `</orth></form>` +
		`<gramGrp><pos>` + pos + `</pos></gramGrp>` +
		`<sense><cit type="trans"><quote>` + quote + `</quote></cit>` +
		`<cit type="trans"><quote>ignored second</quote></cit></sense></entry>`
}

func TestParseTEIKeepsVerbs(t *testing.T) {
	doc := teiHeader +
		entry("Parlar", "v", "to speak") +
		entry("casa", "n", "house") +
		entry("menjar", "verb transitive", "to eat") +
		`<entry><form><orth>sense</orth></form><gramGrp><pos>v</pos></gramGrp></entry>` +
		teiFooter

	got, stats, err := ParseTEI(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"parlar": "to speak", "menjar": "to eat"}, got)
	assert.Equal(t, Stats{Entries: 4, Verbs: 2, NonVerbs: 1, Incomplete: 1}, stats)
}

func TestParseTEIFirstWins(t *testing.T) {
	doc := teiHeader +
		entry("anar", "v", "to go") +
		entry("ANAR ", "v", "to walk") +
		teiFooter

	got, stats, err := ParseTEI(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "to go", got["anar"])
	assert.Len(t, got, 1)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestParseTEINestedQuoteMarkup(t *testing.T) {
	doc := teiHeader +
		`<entry><form><orth>fer</orth></form><gramGrp><pos>v</pos></gramGrp>` +
		`<sense><cit><quote>to <hi>make</hi>
		 or do</quote></cit></sense></entry>` +
		teiFooter

	got, _, err := ParseTEI(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "to make or do", got["fer"])
}

func TestParseTEIMalformedReturnsPartial(t *testing.T) {
	doc := teiHeader + entry("venir", "v", "to come") + `<entry><form><orth>dir</orth>`

	got, stats, err := ParseTEI(strings.NewReader(doc))
	require.Error(t, err)
	assert.Equal(t, "to come", got["venir"])
	assert.Equal(t, 1, stats.Verbs)
}

func TestIsVerbPOS(t *testing.T) {
	assert.True(t, IsVerbPOS("v"))
	assert.True(t, IsVerbPOS(" V "))
	assert.True(t, IsVerbPOS("verb"))
	assert.True(t, IsVerbPOS("verbal"))
	assert.False(t, IsVerbPOS("vt"))
	assert.False(t, IsVerbPOS("adv"))
}

func TestTranslations(t *testing.T) {
	tr := Translations{"parlar": "to speak"}
	v, ok := tr.Get("  Parlar ")
	require.True(t, ok)
	assert.Equal(t, "to speak", v)

	_, ok = tr.Get("fer")
	assert.False(t, ok)

	added := tr.Merge(map[string]string{"parlar": "to talk", "Fer": "to do", "anar": ""})
	assert.Equal(t, 1, added)
	assert.Equal(t, "to speak", tr["parlar"])
	assert.Equal(t, "to do", tr["fer"])
}
