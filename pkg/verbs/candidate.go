package verbs

import "strings"

var infinitiveSuffixes = []string{"ar", "er", "ir", "re"}

// Spelling-change endings: the stem consonant is respelled before front
// vowels (toqui, pagui, comenci, mengi), so formula output is wrong for them.
var alternatingSuffixes = []string{"guar", "quar", "car", "gar", "çar", "jar"}

// IsVerbCandidate reports whether a frequency-list word looks like a plain
// infinitive: a known ending and no multi-word, hyphenated or reflexive form.
func IsVerbCandidate(word string) bool {
	if word == "" || strings.ContainsAny(word, " \t-'’") {
		return false
	}
	if strings.HasSuffix(word, "se") {
		return false
	}
	for _, suf := range infinitiveSuffixes {
		if strings.HasSuffix(word, suf) && len([]rune(word)) > len(suf) {
			return true
		}
	}
	return false
}

// IsAlternating reports whether the infinitive needs spelling-change lookup.
func IsAlternating(infinitive string) bool {
	for _, suf := range alternatingSuffixes {
		if strings.HasSuffix(infinitive, suf) {
			return true
		}
	}
	return false
}

// knownIrregular is the curated set of verbs whose tables must come from the
// conjugation source. Inceptive -ir verbs (serveixo) are listed too since the
// pure -ir formula does not cover them.
var knownIrregular = map[string]bool{
	"ésser": true, "ser": true, "estar": true, "haver": true, "fer": true, "anar": true,
	"dir": true, "veure": true, "venir": true, "tenir": true, "poder": true, "voler": true,
	"saber": true, "dur": true, "creure": true, "viure": true, "escriure": true, "beure": true,
	"conèixer": true, "prendre": true, "aprendre": true, "entendre": true, "treure": true,
	"seure": true, "caure": true, "riure": true, "sortir": true, "obrir": true, "morir": true,
	"cosir": true, "tossir": true, "omplir": true, "collir": true, "fugir": true, "cabre": true,
	"valer": true, "doler": true, "moure": true, "ploure": true, "coure": true, "néixer": true,
	"créixer": true, "merèixer": true, "parèixer": true, "jeure": true, "lluir": true,
	"rebre": true, "deure": true, "haure": true, "oir": true, "eixir": true, "complir": true,
	"respondre": true, "vendre": true, "pondre": true, "fondre": true, "confondre": true,
	"resoldre": true, "servir": true, "llegir": true, "construir": true, "preferir": true,
	"decidir": true, "oferir": true, "patir": true, "permetre": true, "prometre": true,
	"admetre": true, "bullir": true, "fingir": true, "seguir": true, "escopir": true,
	"sofrir": true, "reduir": true, "produir": true, "traduir": true, "introduir": true,
	"conduir": true, "distribuir": true, "concloure": true, "incloure": true, "excloure": true,
	"cloure": true, "batre": true, "abatre": true, "combatre": true, "debatre": true,
	"rompre": true, "córrer": true, "témer": true, "tòrcer": true, "vèncer": true,
	"convèncer": true, "nàixer": true, "dependre": true, "ofendre": true, "encendre": true,
	"estendre": true, "pretendre": true, "sorprendre": true, "comprendre": true,
	"emprendre": true, "ocórrer": true, "recórrer": true, "socórrer": true, "discórrer": true,
	"establir": true, "definir": true, "exigir": true, "dirigir": true, "elegir": true,
	"corregir": true, "garantir": true, "unir": true, "reunir": true, "repartir": true,
	"consistir": true, "existir": true, "insistir": true, "resistir": true, "assistir": true,
	"persistir": true, "obtenir": true, "mantenir": true, "contenir": true, "retenir": true,
	"sostenir": true, "detenir": true, "pertànyer": true, "convenir": true, "prevenir": true,
	"intervenir": true, "esdevenir": true, "provenir": true, "descobrir": true, "cobrir": true,
}

// IsKnownIrregular reports whether the infinitive is in the curated irregular set.
func IsKnownIrregular(infinitive string) bool {
	return knownIrregular[infinitive]
}
