package config

import (
	"strings"
	"testing"
	"time"
)

func TestParseScope(t *testing.T) {
	yml := `
timezone: America/New_York
window_hours: 48
cutoff: "2026-11-08T11:00:00"
default_location: Northern TZ
max_items: 20
keywords: [protest, unrest]
locations: [Arusha, Serengeti]
queries:
  - Arusha protest OR unrest
feeds:
  - https://example.com/rss
`
	sc, err := ParseScope(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("ParseScope failed: %v", err)
	}

	if sc.Scan.Window != 48*time.Hour {
		t.Errorf("expected 48h window, got %v", sc.Scan.Window)
	}
	if len(sc.Scan.Keywords) != 2 || len(sc.Scan.Locations) != 2 {
		t.Errorf("unexpected term sets: %v / %v", sc.Scan.Keywords, sc.Scan.Locations)
	}
	if sc.MaxItems != 20 {
		t.Errorf("expected max_items 20, got %d", sc.MaxItems)
	}

	// The zone-less cutoff reads in the configured timezone.
	want := time.Date(2026, 11, 8, 11, 0, 0, 0, sc.Location)
	if !sc.Scan.Cutoff.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, sc.Scan.Cutoff)
	}
}

func TestParseScopeDefaults(t *testing.T) {
	yml := `
keywords: [protest]
locations: [Arusha]
`
	sc, err := ParseScope(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("ParseScope failed: %v", err)
	}

	if sc.Scan.Window != 72*time.Hour {
		t.Errorf("expected default 72h window, got %v", sc.Scan.Window)
	}
	if !sc.Scan.Cutoff.IsZero() {
		t.Errorf("expected no cutoff, got %v", sc.Scan.Cutoff)
	}
	if sc.DefaultLocation != "Northern TZ" {
		t.Errorf("expected default location, got %q", sc.DefaultLocation)
	}
	if sc.Location.String() != "America/New_York" {
		t.Errorf("expected default timezone, got %q", sc.Location)
	}
}

func TestParseScopeRejectsBadCutoff(t *testing.T) {
	yml := `
keywords: [protest]
locations: [Arusha]
cutoff: "next tuesday"
`
	if _, err := ParseScope(strings.NewReader(yml)); err == nil {
		t.Error("expected an error for an unparseable cutoff")
	}
}

func TestParseScopeRFC3339Cutoff(t *testing.T) {
	yml := `
timezone: UTC
keywords: [protest]
locations: [Arusha]
cutoff: "2026-11-08T16:00:00Z"
`
	sc, err := ParseScope(strings.NewReader(yml))
	if err != nil {
		t.Fatalf("ParseScope failed: %v", err)
	}
	want := time.Date(2026, 11, 8, 16, 0, 0, 0, time.UTC)
	if !sc.Scan.Cutoff.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, sc.Scan.Cutoff)
	}
}
