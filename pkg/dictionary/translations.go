package dictionary

import "github.com/japaniel/verbdrill/pkg/verbs"

// Translations maps normalized lemmas to raw translations.
type Translations map[string]string

// Get looks up lemma after normalizing it.
func (t Translations) Get(lemma string) (string, bool) {
	v, ok := t[verbs.NormalizeLemma(lemma)]
	return v, ok && v != ""
}

// Merge adds entries from other that t does not already have. Existing
// entries are kept.
func (t Translations) Merge(other map[string]string) int {
	added := 0
	for k, v := range other {
		k = verbs.NormalizeLemma(k)
		if _, ok := t[k]; ok || k == "" || v == "" {
			continue
		}
		t[k] = v
		added++
	}
	return added
}
