package scan

import (
	"regexp"
	"strings"
)

// MatchTerms returns the scope terms found in folded text, in the order the
// term set lists them. Phrases match as substrings; single tokens of three
// runes or fewer require a word boundary (so "jro" does not fire inside an
// unrelated word); longer tokens match as substrings.
func MatchTerms(text string, terms []string) []string {
	var hits []string
	for _, term := range terms {
		if termMatches(text, term) {
			hits = append(hits, term)
		}
	}
	return hits
}

func termMatches(text, term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return false
	}

	if strings.Contains(t, " ") {
		return strings.Contains(text, t)
	}

	if len([]rune(t)) <= 3 {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
		return re.MatchString(text)
	}

	return strings.Contains(text, t)
}
