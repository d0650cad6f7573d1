package scan

import (
	"reflect"
	"testing"
	"time"
)

func matchAt(title, link, source string, ts time.Time) Match {
	return Match{Item: Item{
		Title:       title,
		Link:        link,
		Source:      source,
		EffectiveAt: ts,
		SearchText:  FoldText(title),
	}}
}

func TestDedupeEarliestReportWins(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	link := "https://example.com/violence-arusha"

	later := matchAt("Violence reported near Arusha", link, "Example", now.Add(-2*time.Hour))
	earlier := matchAt("Violence reported near Arusha", link, "Example", now.Add(-5*time.Hour))

	out := Dedupe([]Match{later, earlier})
	if len(out) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(out))
	}
	if !out[0].Item.EffectiveAt.Equal(now.Add(-5 * time.Hour)) {
		t.Errorf("expected the earlier report to survive, got %v", out[0].Item.EffectiveAt)
	}
}

func TestDedupeTieBreaksBySourceName(t *testing.T) {
	ts := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	link := "https://example.com/story"

	a := matchAt("Protest in Arusha", link, "Beta Times", ts)
	b := matchAt("Protest in Arusha", link, "Alpha News", ts)

	out := Dedupe([]Match{a, b})
	if len(out) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(out))
	}
	if out[0].Item.Source != "Alpha News" {
		t.Errorf("expected lexically earliest source to win, got %q", out[0].Item.Source)
	}
}

func TestDedupeFallsBackToTitleKey(t *testing.T) {
	ts := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)

	a := matchAt("Roadblock on A23, near Karatu!", "", "One", ts)
	b := matchAt("roadblock on a23 near   karatu", "", "Two", ts.Add(time.Hour))

	out := Dedupe([]Match{a, b})
	if len(out) != 1 {
		t.Fatalf("expected punctuation/case variants to collapse, got %d survivors", len(out))
	}
	if out[0].Item.Source != "One" {
		t.Errorf("expected earlier report to survive, got source %q", out[0].Item.Source)
	}
}

func TestDedupeKeyNormalizesLinks(t *testing.T) {
	a := Item{Link: "HTTPS://Example.com/Story/#frag"}
	b := Item{Link: "https://example.com/Story"}
	if DedupeKey(a) != DedupeKey(b) {
		t.Errorf("expected %q and %q to share a key", a.Link, b.Link)
	}

	c := Item{Link: "https://example.com/story?id=1"}
	d := Item{Link: "https://example.com/story?id=2"}
	if DedupeKey(c) == DedupeKey(d) {
		t.Error("expected different query strings to keep distinct keys")
	}
}

func TestDedupeOrderIndependent(t *testing.T) {
	now := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)
	link := "https://example.com/story"

	matches := []Match{
		matchAt("Protest in Arusha", link, "Alpha", now.Add(-1*time.Hour)),
		matchAt("Protest in Arusha", link, "Beta", now.Add(-3*time.Hour)),
		matchAt("Curfew in Karatu", "https://example.com/curfew", "Gamma", now.Add(-2*time.Hour)),
		matchAt("Roadblock on A104", "", "Delta", now.Add(-4*time.Hour)),
	}
	reversed := []Match{matches[3], matches[2], matches[1], matches[0]}

	a := Rank(Dedupe(matches))
	b := Rank(Dedupe(reversed))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical output for reordered input:\n%v\nvs\n%v", a, b)
	}
	if len(a) != 3 {
		t.Errorf("expected 3 survivors, got %d", len(a))
	}
}
