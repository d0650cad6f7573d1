package scan

import (
	"regexp"
	"strings"
	"time"
)

// Layouts tried for raw published strings when the feed parser did not
// hand over a parsed time.
var publishedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// Normalize converts a raw feed entry into an Item. It reports false when
// the entry carries neither title nor summary: there is nothing to match,
// so the entry is dropped rather than failing the run.
func Normalize(raw RawItem) (Item, bool) {
	title := strings.TrimSpace(raw.Title)
	summary := strings.TrimSpace(raw.Summary)
	if title == "" && summary == "" {
		return Item{}, false
	}

	it := Item{
		Title:   title,
		Summary: summary,
		Link:    strings.TrimSpace(raw.Link),
		Source:  strings.TrimSpace(raw.Source),
	}

	if raw.PublishedAt != nil && !raw.PublishedAt.IsZero() {
		it.EffectiveAt = *raw.PublishedAt
	} else if ts, ok := parsePublished(raw.Published); ok {
		it.EffectiveAt = ts
	} else {
		it.EffectiveAt = raw.FetchedAt
		it.UsedFetchTime = true
	}

	it.SearchText = FoldText(title + " " + summary)
	return it, true
}

func parsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FoldText lowercases text, strips HTML tags and collapses whitespace.
// RSS summaries routinely carry markup, so tags go first.
func FoldText(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
