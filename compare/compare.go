// Package compare judges whether a predicted value matches ground truth.
//
// Category and routing values are short controlled-vocabulary strings and
// use only exact and containment matching. Resolutions are free text and
// additionally get keyword-overlap and action-synonym tolerance. All
// functions are pure and deterministic.
package compare

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// jaccardThreshold is the keyword-overlap ratio at which two resolutions
// are considered equivalent on token evidence alone.
const jaccardThreshold = 0.4

// Values reports whether a predicted category or routing value matches
// the actual one: trimmed case-insensitive equality, or containment in
// either direction.
func Values(predicted, actual string) bool {
	pred := strings.ToLower(strings.TrimSpace(predicted))
	act := strings.ToLower(strings.TrimSpace(actual))
	if pred == act {
		return true
	}
	if pred == "" || act == "" {
		return false
	}
	return strings.Contains(pred, act) || strings.Contains(act, pred)
}

// Resolution reports whether a predicted resolution matches the actual
// one. Beyond the Values checks, two resolutions match when their keyword
// sets overlap strongly (Jaccard >= 0.4), or when they share at least two
// keywords and both mention an action from the same synonym group.
func Resolution(predicted, actual string) bool {
	if strings.TrimSpace(predicted) == "" || strings.TrimSpace(actual) == "" {
		return false
	}
	pred := strings.ToLower(strings.TrimSpace(predicted))
	act := strings.ToLower(strings.TrimSpace(actual))

	if pred == act {
		return true
	}
	if strings.Contains(pred, act) || strings.Contains(act, pred) {
		return true
	}

	predKeywords := Keywords(pred)
	actKeywords := Keywords(act)
	if len(predKeywords) == 0 || len(actKeywords) == 0 {
		return false
	}

	intersection := 0
	union := len(actKeywords)
	for word := range predKeywords {
		if actKeywords[word] {
			intersection++
		} else {
			union++
		}
	}

	if float64(intersection)/float64(union) >= jaccardThreshold {
		return true
	}
	return intersection >= 2 && sharedActionGroup(pred, act)
}

// stopWords are dropped before computing keyword overlap: articles,
// auxiliary verbs, pronouns, and ITSM filler.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true,
	"was": true, "are": true, "were": true, "been": true, "be": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "must": true, "shall": true, "can": true,
	"need": true, "it": true, "its": true, "this": true, "that": true,
	"these": true, "those": true, "i": true, "you": true, "he": true,
	"she": true, "we": true, "they": true, "them": true, "their": true,
	"please": true, "try": true, "check": true,
}

// actionSynonyms groups remediation verbs that describe the same action.
var actionSynonyms = [][]string{
	{"reset", "restart", "reboot", "restore", "reinitialize"},
	{"update", "upgrade", "patch", "install"},
	{"install", "deploy", "set up", "configure"},
	{"verify", "check", "confirm", "validate", "test"},
	{"restart", "reboot", "reset", "power cycle"},
	{"configure", "setup", "set up", "adjust", "modify"},
	{"recreate", "rebuild", "reset", "create new"},
	{"reconnect", "connect", "reestablish", "restore connection"},
}

// Keywords tokenizes text into its significant lower-case alphanumeric
// words: stopwords and tokens shorter than 3 runes are dropped. Letters
// and digits from any script count, so non-English resolutions keep
// their tokens intact.
func Keywords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		var b strings.Builder
		for _, r := range raw {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		word := b.String()
		if utf8.RuneCountInString(word) > 2 && !stopWords[word] {
			words[word] = true
		}
	}
	return words
}

// sharedActionGroup reports whether both strings mention an action from
// the same synonym group. Matching is substring-based against the raw
// lower-cased text, so multi-word actions like "power cycle" count.
func sharedActionGroup(a, b string) bool {
	for _, group := range actionSynonyms {
		aHas, bHas := false, false
		for _, action := range group {
			if strings.Contains(a, action) {
				aHas = true
			}
			if strings.Contains(b, action) {
				bHas = true
			}
			if aHas && bHas {
				return true
			}
		}
	}
	return false
}
