package scan

import (
	"net/url"
	"sort"
	"strings"
	"unicode"
)

// DedupeKey is the identity used to collapse duplicate reports: the
// canonical link when one exists, otherwise the normalized title. The
// prefixes keep the two namespaces from colliding.
func DedupeKey(it Item) string {
	if link := canonicalLink(it.Link); link != "" {
		return "link|" + link
	}
	return "title|" + normalizeTitle(it.Title)
}

// Dedupe collapses matches sharing a dedupe key. The earliest effective
// timestamp wins (treated as the original report); ties go to the lexically
// smaller source name, then title, so any input order yields the same
// survivors. Output order is by key; the ranker decides the final order.
func Dedupe(matches []Match) []Match {
	byKey := make(map[string]Match, len(matches))
	for _, m := range matches {
		key := DedupeKey(m.Item)
		cur, seen := byKey[key]
		if !seen || earlier(m, cur) {
			byKey[key] = m
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Match, 0, len(keys))
	for _, k := range keys {
		out = append(out, byKey[k])
	}
	return out
}

func earlier(a, b Match) bool {
	if !a.Item.EffectiveAt.Equal(b.Item.EffectiveAt) {
		return a.Item.EffectiveAt.Before(b.Item.EffectiveAt)
	}
	if a.Item.Source != b.Item.Source {
		return a.Item.Source < b.Item.Source
	}
	return a.Item.Title < b.Item.Title
}

// canonicalLink lowercases the scheme and host, drops the fragment and a
// trailing slash. Query strings stay: Google News links are only
// distinguishable by them.
func canonicalLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return strings.ToLower(link)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// normalizeTitle case-folds, strips punctuation (Unicode-aware) and
// collapses whitespace.
func normalizeTitle(title string) string {
	title = strings.ToLower(title)
	runes := make([]rune, 0, len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			runes = append(runes, r)
		} else {
			runes = append(runes, ' ')
		}
	}
	return strings.Join(strings.Fields(string(runes)), " ")
}
