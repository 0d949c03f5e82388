// Package dictionary extracts verb translations from TEI bilingual dictionaries.
package dictionary

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/verbdrill/pkg/verbs"
)

// Stats counts what ParseTEI saw.
type Stats struct {
	Entries    int
	Verbs      int
	NonVerbs   int
	Incomplete int // missing headword, POS or translation
	Duplicates int
}

// teiEntry holds the first orth, pos and quote found in one <entry>.
type teiEntry struct {
	Headword    string
	POS         string
	Translation string
}

// ParseTEI streams a TEI document and returns lemma -> first translation for
// every verb entry. The first entry for a lemma wins; later duplicates are
// ignored. Element names are matched without regard to namespace.
//
// On malformed XML the translations collected so far are returned along with
// the error.
func ParseTEI(r io.Reader) (map[string]string, Stats, error) {
	out := make(map[string]string)
	var stats Stats

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return out, stats, nil
		}
		if err != nil {
			return out, stats, fmt.Errorf("parse TEI: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		entry, err := readEntry(dec)
		if err != nil {
			return out, stats, fmt.Errorf("parse TEI entry %d: %w", stats.Entries+1, err)
		}
		stats.Entries++

		if entry.Headword == "" || entry.POS == "" || entry.Translation == "" {
			stats.Incomplete++
			continue
		}
		if !IsVerbPOS(entry.POS) {
			stats.NonVerbs++
			continue
		}
		if _, dup := out[entry.Headword]; dup {
			stats.Duplicates++
			continue
		}
		out[entry.Headword] = entry.Translation
		stats.Verbs++
	}
}

// IsVerbPOS reports whether a part-of-speech tag denotes a verb: the exact
// code "v" or anything starting with "verb".
func IsVerbPOS(pos string) bool {
	pos = strings.ToLower(strings.TrimSpace(pos))
	return pos == "v" || strings.HasPrefix(pos, "verb")
}

// readEntry consumes tokens up to and including the </entry> that closes
// the element whose start token was just read.
func readEntry(dec *xml.Decoder) (teiEntry, error) {
	var e teiEntry
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return e, io.ErrUnexpectedEOF
			}
			return e, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var dst *string
			switch t.Name.Local {
			case "orth":
				dst = &e.Headword
			case "pos":
				dst = &e.POS
			case "quote":
				dst = &e.Translation
			}
			if dst == nil || *dst != "" {
				depth++
				continue
			}
			text, err := readText(dec)
			if err != nil {
				return e, err
			}
			*dst = text
		case xml.EndElement:
			depth--
		}
	}

	e.Headword = verbs.NormalizeLemma(e.Headword)
	return e, nil
}

// readText returns the concatenated character data of the current element
// with whitespace collapsed, consuming its end token.
func readText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return strings.Join(strings.Fields(b.String()), " "), nil
}
