package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_alerts.json")

	cache := NewFileCache(path, 48*time.Hour)
	if err := cache.Load(); err != nil {
		t.Fatalf("loading a missing file must succeed: %v", err)
	}

	hash := AlertHash("Protest in Arusha", "https://example.com/story")
	if cache.IsSent(hash) {
		t.Error("fresh cache must not report the alert as sent")
	}

	cache.MarkSent(hash, "Protest in Arusha", "https://example.com/story", "Arusha", "Example")
	if err := cache.Save(); err != nil {
		t.Fatalf("saving cache failed: %v", err)
	}

	reloaded := NewFileCache(path, 48*time.Hour)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reloading cache failed: %v", err)
	}
	if !reloaded.IsSent(hash) {
		t.Error("reloaded cache must remember the sent alert")
	}
	if stats := reloaded.Stats(); stats["total_items"] != 1 {
		t.Errorf("expected 1 cached item, got %d", stats["total_items"])
	}
}

func TestFileCacheExpiresOldEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_alerts.json")

	cache := NewFileCache(path, 48*time.Hour)
	hash := AlertHash("Old story", "https://example.com/old")
	cache.mu.Lock()
	cache.items[hash] = SentAlert{Hash: hash, SentAt: time.Now().Add(-72 * time.Hour)}
	cache.mu.Unlock()

	if cache.IsSent(hash) {
		t.Error("entry past the TTL must not count as sent")
	}

	if err := cache.Save(); err != nil {
		t.Fatalf("saving cache failed: %v", err)
	}
	reloaded := NewFileCache(path, 48*time.Hour)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reloading cache failed: %v", err)
	}
	if stats := reloaded.Stats(); stats["total_items"] != 0 {
		t.Errorf("expired entries must be dropped on load, got %d", stats["total_items"])
	}
}

func TestFileCacheLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sent_alerts.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cache := NewFileCache(path, time.Hour)
	if err := cache.Load(); err != nil {
		t.Errorf("empty file must load cleanly: %v", err)
	}
}

func TestAlertHashNormalizes(t *testing.T) {
	a := AlertHash("  Protest in   Arusha ", "https://www.example.com/story")
	b := AlertHash("protest in arusha", "https://example.com/other-path")
	if a != b {
		t.Error("same title and domain must hash identically")
	}

	c := AlertHash("protest in arusha", "https://different.org/story")
	if a == c {
		t.Error("different domains must hash differently")
	}
}
