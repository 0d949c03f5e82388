package conjtable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/japaniel/verbdrill/pkg/markup"
)

func mustParse(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := markup.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}
