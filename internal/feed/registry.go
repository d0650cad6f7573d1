// Package feed builds the source registry and fetches its RSS/Atom
// documents. Feed failures degrade to zero items for the failing source;
// the pipeline downstream operates on whatever was collected.
package feed

import (
	"fmt"
	"net/url"
	"strings"
)

// Source is one feed endpoint in the registry.
type Source struct {
	Name string
	URL  string
}

// GoogleNewsURL builds a Google News RSS search feed for one query.
func GoogleNewsURL(query string) string {
	return fmt.Sprintf(
		"https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query),
	)
}

// BuildRegistry assembles the run's source list: one Google News query feed
// per configured query plus the static feed URLs. Blank entries are skipped.
func BuildRegistry(queries, feeds []string) []Source {
	sources := make([]Source, 0, len(queries)+len(feeds))
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		sources = append(sources, Source{Name: "Google News: " + q, URL: GoogleNewsURL(q)})
	}
	for _, f := range feeds {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		sources = append(sources, Source{Name: f, URL: f})
	}
	return sources
}
