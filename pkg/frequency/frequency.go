// Package frequency reads ranked word lists.
package frequency

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-shiori/dom"

	"github.com/japaniel/verbdrill/pkg/markup"
	"github.com/japaniel/verbdrill/pkg/verbs"
)

const maxLineSize = 1024 * 1024

// Words yields the lowercase second field of every "<rank> <word> ..." line
// in file order. Lines with fewer than two fields are skipped. A read error
// ends the sequence early. The sequence consumes r and cannot be restarted.
func Words(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) < 2 {
				continue
			}
			if !yield(strings.ToLower(fields[1])) {
				return
			}
		}
	}
}

// Entry is one row of an HTML ranked table.
type Entry struct {
	Rank  int
	Word  string
	Gloss string
}

var rowSelector = cascadia.MustCompile("tr")

// ParseHTMLTable extracts "rank | word | gloss" rows from an HTML page.
// Header rows (no td cells) and rows with fewer than two cells are skipped,
// as are repeated words. A non-numeric rank cell is replaced by the row's
// position.
func ParseHTMLTable(r io.Reader) ([]Entry, error) {
	doc, err := markup.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse frequency table: %w", err)
	}

	var entries []Entry
	seen := make(map[string]bool)
	for _, row := range rowSelector.MatchAll(doc) {
		cells := markup.Cells(row)
		if len(cells) < 2 || len(dom.GetElementsByTagName(row, "td")) == 0 {
			continue
		}
		word := verbs.NormalizeLemma(markup.Text(cells[1]))
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true

		e := Entry{Word: word}
		if rank, err := strconv.Atoi(strings.TrimSuffix(markup.Text(cells[0]), ".")); err == nil {
			e.Rank = rank
		} else {
			e.Rank = len(entries) + 1
		}
		if len(cells) > 2 {
			e.Gloss = markup.Text(cells[2])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// FormatLines renders entries in the "<rank> <word>" line format read by
// Words. Multi-word entries are dropped since they can never be verb
// candidates and would split into the wrong field.
func FormatLines(entries []Entry) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		if strings.ContainsAny(e.Word, " \t") {
			continue
		}
		fmt.Fprintf(&buf, "%d %s\n", e.Rank, e.Word)
	}
	return buf.Bytes()
}

// Glosses maps each entry's word to its gloss, skipping empty glosses.
func Glosses(entries []Entry) map[string]string {
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Gloss != "" {
			out[e.Word] = e.Gloss
		}
	}
	return out
}
