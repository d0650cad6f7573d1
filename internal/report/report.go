// Package report renders the ranked match set into the two published
// artifacts: the structured record set for the static site and the
// SMS-style plain-text digest.
package report

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/kiliwatch/tzscan/internal/scan"
)

// Entry is one exported record in web/data/latest.json.
type Entry struct {
	ID                string   `json:"id"`
	Time              string   `json:"time"`
	TimeLocal         string   `json:"time_local"`
	Location          string   `json:"location"`
	Title             string   `json:"title"`
	Link              string   `json:"link"`
	Source            string   `json:"source"`
	SourceShort       string   `json:"source_short"`
	Summary           string   `json:"summary"`
	Keywords          []string `json:"keywords"`
	Locations         []string `json:"locations"`
	FetchTimeFallback bool     `json:"fetch_time_fallback,omitempty"`
}

// Report is the structured output artifact. Entries are sorted newest
// first and carry distinct dedupe keys by the time they get here.
type Report struct {
	GeneratedAt string  `json:"generated_at"`
	Count       int     `json:"count"`
	Entries     []Entry `json:"entries"`
}

// Build converts ranked matches into a Report. All times render in loc and
// the generation timestamp is injected, so identical inputs produce
// byte-identical output. A positive maxItems caps the entry list; the
// digest is rendered from the same entries, which keeps the two artifacts
// at the same count.
func Build(matches []scan.Match, generatedAt time.Time, loc *time.Location, defaultLocation string, maxItems int) Report {
	if loc == nil {
		loc = time.UTC
	}
	if maxItems > 0 && len(matches) > maxItems {
		matches = matches[:maxItems]
	}

	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		it := m.Item
		local := it.EffectiveAt.In(loc)

		location := defaultLocation
		if len(m.Locations) > 0 {
			location = m.Locations[0]
		}

		entries = append(entries, Entry{
			ID:                makeID(it.Link + it.Title),
			Time:              local.Format(time.RFC3339),
			TimeLocal:         local.Format("3:04 PM MST"),
			Location:          location,
			Title:             it.Title,
			Link:              it.Link,
			Source:            it.Source,
			SourceShort:       ShortenSource(it.Link, it.Source),
			Summary:           it.Summary,
			Keywords:          m.Keywords,
			Locations:         m.Locations,
			FetchTimeFallback: it.UsedFetchTime,
		})
	}

	return Report{
		GeneratedAt: generatedAt.In(loc).Format(time.RFC3339),
		Count:       len(entries),
		Entries:     entries,
	}
}

// JSON renders the report for web/data/latest.json.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func makeID(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])[:12]
}

// ShortenSource keeps only the link's domain for digest brevity, falling
// back to a clipped source name when the link has no usable host.
func ShortenSource(link, source string) string {
	if u, err := url.Parse(strings.TrimSpace(link)); err == nil && u.Host != "" {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	fallback := source
	if fallback == "" {
		fallback = link
	}
	if runes := []rune(fallback); len(runes) > 40 {
		return string(runes[:40])
	}
	return fallback
}
