package frequency

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWords(t *testing.T) {
	input := "1 Parlar 12034\n\n2\n3 anar extra fields\n   \n4\tFER\n"
	got := slices.Collect(Words(strings.NewReader(input)))
	assert.Equal(t, []string{"parlar", "anar", "fer"}, got)
}

func TestWordsStopsEarly(t *testing.T) {
	var got []string
	for w := range Words(strings.NewReader("1 a\n2 b\n3 c\n")) {
		got = append(got, w)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestWordsNotRestartable(t *testing.T) {
	seq := Words(strings.NewReader("1 a\n2 b\n"))
	assert.Len(t, slices.Collect(seq), 2)
	assert.Empty(t, slices.Collect(seq))
}

type failingReader struct{ data *bytes.Reader }

func (f failingReader) Read(p []byte) (int, error) {
	n, err := f.data.Read(p)
	if err != nil {
		return n, errors.New("connection reset")
	}
	return n, nil
}

func TestWordsDegradesOnReadError(t *testing.T) {
	got := slices.Collect(Words(failingReader{bytes.NewReader([]byte("1 a\n2 b\n"))}))
	assert.Equal(t, []string{"a", "b"}, got)
}

const tablePage = `<html><body>
<table>
<tr><th>#</th><th>Verb</th><th>Meaning</th></tr>
<tr><td>1.</td><td>Parlar</td><td>to speak</td></tr>
<tr><td>2</td><td>fer</td><td>to do,  to make</td></tr>
<tr><td>3</td><td>parlar</td><td>duplicate</td></tr>
<tr><td>x</td><td>anar a</td><td>to be going to</td></tr>
<tr><td>only</td></tr>
</table>
</body></html>`

func TestParseHTMLTable(t *testing.T) {
	entries, err := ParseHTMLTable(strings.NewReader(tablePage))
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Rank: 1, Word: "parlar", Gloss: "to speak"},
		{Rank: 2, Word: "fer", Gloss: "to do, to make"},
		{Rank: 3, Word: "anar a", Gloss: "to be going to"},
	}, entries)

	lines := FormatLines(entries)
	assert.Equal(t, "1 parlar\n2 fer\n", string(lines))
	assert.Equal(t, []string{"parlar", "fer"}, slices.Collect(Words(bytes.NewReader(lines))))

	assert.Equal(t, "to speak", Glosses(entries)["parlar"])
}
