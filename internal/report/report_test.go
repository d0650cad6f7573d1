package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kiliwatch/tzscan/internal/scan"
)

func sampleMatches(now time.Time) []scan.Match {
	return []scan.Match{
		{
			Item: scan.Item{
				Title:       "Protest turns violent near Ngorongoro gate",
				Summary:     "Demonstrators blocked the access road.",
				Link:        "https://news.example.com/ngorongoro-protest",
				Source:      "Example News",
				EffectiveAt: now.Add(-1 * time.Hour),
			},
			Keywords:  []string{"protest", "violent"},
			Locations: []string{"Ngorongoro"},
		},
		{
			Item: scan.Item{
				Title:         "Curfew announced in Karatu",
				Link:          "https://other.example.org/karatu-curfew",
				Source:        "Other Org",
				EffectiveAt:   now.Add(-6 * time.Hour),
				UsedFetchTime: true,
			},
			Keywords:  []string{"curfew"},
			Locations: []string{"Karatu"},
		},
	}
}

func TestBuildAndDigestCountParity(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	rep := Build(sampleMatches(now), now, time.UTC, "Northern TZ", 0)

	if rep.Count != 2 || len(rep.Entries) != 2 {
		t.Fatalf("expected 2 entries, got count=%d len=%d", rep.Count, len(rep.Entries))
	}

	digest := Digest(rep, 160)
	lines := strings.Split(strings.TrimRight(digest, "\n"), "\n")
	if len(lines) != rep.Count {
		t.Errorf("digest has %d lines for %d records", len(lines), rep.Count)
	}
}

func TestBuildEntryFields(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	rep := Build(sampleMatches(now), now, time.UTC, "Northern TZ", 0)

	e := rep.Entries[0]
	if e.Location != "Ngorongoro" {
		t.Errorf("expected first matched location, got %q", e.Location)
	}
	if e.SourceShort != "news.example.com" {
		t.Errorf("expected domain source, got %q", e.SourceShort)
	}
	if e.TimeLocal != "11:00 AM UTC" {
		t.Errorf("unexpected local time: %q", e.TimeLocal)
	}
	if len(e.ID) != 12 {
		t.Errorf("expected 12-char id, got %q", e.ID)
	}
	if e.FetchTimeFallback {
		t.Error("first entry should not carry the fetch-time fallback flag")
	}
	if !rep.Entries[1].FetchTimeFallback {
		t.Error("second entry should carry the fetch-time fallback flag")
	}
}

func TestBuildEmptyInput(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	rep := Build(nil, now, time.UTC, "Northern TZ", 0)

	if rep.Count != 0 {
		t.Errorf("expected count 0, got %d", rep.Count)
	}
	data, err := rep.JSON()
	if err != nil {
		t.Fatalf("empty report must still serialize: %v", err)
	}
	if !strings.Contains(string(data), `"entries": []`) {
		t.Errorf("expected empty entries array, got:\n%s", data)
	}
	if Digest(rep, 160) != "" {
		t.Error("empty report must yield an empty digest")
	}
}

func TestBuildMaxItemsCapsBothArtifacts(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	rep := Build(sampleMatches(now), now, time.UTC, "Northern TZ", 1)

	if rep.Count != 1 {
		t.Fatalf("expected cap at 1 entry, got %d", rep.Count)
	}
	digest := Digest(rep, 160)
	if got := strings.Count(digest, "\n"); got != 1 {
		t.Errorf("expected 1 digest line, got %d", got)
	}
}

func TestOutputIsIdempotent(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	matches := sampleMatches(now)

	repA := Build(matches, now, time.UTC, "Northern TZ", 0)
	repB := Build(matches, now, time.UTC, "Northern TZ", 0)

	jsonA, err := repA.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	jsonB, err := repB.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if !bytes.Equal(jsonA, jsonB) {
		t.Error("identical input must produce byte-identical JSON")
	}
	if Digest(repA, 160) != Digest(repB, 160) {
		t.Error("identical input must produce identical digests")
	}
}

func TestDigestLineTruncatesLongTitles(t *testing.T) {
	e := Entry{
		TimeLocal:   "11:00 AM EST",
		Location:    "Arusha",
		Title:       strings.Repeat("very long headline ", 20),
		SourceShort: "news.example.com",
	}

	line := Line(e, 120)
	if n := len([]rune(line)); n > 120 {
		t.Errorf("line has %d runes, cap is 120", n)
	}
	if !strings.HasSuffix(line, "| news.example.com") {
		t.Errorf("truncation must preserve the source, got %q", line)
	}
	if !strings.Contains(line, "…") {
		t.Errorf("truncated line should carry an ellipsis, got %q", line)
	}
}

func TestDigestLineUncappedWhenDisabled(t *testing.T) {
	e := Entry{
		TimeLocal:   "11:00 AM EST",
		Location:    "Arusha",
		Title:       strings.Repeat("x", 300),
		SourceShort: "example.com",
	}
	if got := Line(e, 0); !strings.Contains(got, strings.Repeat("x", 300)) {
		t.Error("cap of 0 must leave the title intact")
	}
}

func TestShortenSource(t *testing.T) {
	tests := []struct {
		link, source, want string
	}{
		{"https://www.thecitizen.co.tz/news/123", "The Citizen", "thecitizen.co.tz"},
		{"", "Some Long Outlet", "Some Long Outlet"},
		{"not a url", strings.Repeat("s", 60), strings.Repeat("s", 40)},
	}
	for _, test := range tests {
		if got := ShortenSource(test.link, test.source); got != test.want {
			t.Errorf("ShortenSource(%q, %q) = %q, want %q", test.link, test.source, got, test.want)
		}
	}
}
