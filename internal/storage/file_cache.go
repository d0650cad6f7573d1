// Package storage persists which alerts were already pushed to the
// notifier, so reruns stay quiet about old reports. The core pipeline
// never consults it.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// SentAlert is an alert line that was already pushed to the notifier.
type SentAlert struct {
	Hash     string    `json:"hash"`
	Title    string    `json:"title"`
	Link     string    `json:"link"`
	Location string    `json:"location"`
	SentAt   time.Time `json:"sent_at"`
	Source   string    `json:"source"`
}

// FileCache keeps sent alerts in a JSON file between runs.
type FileCache struct {
	filePath string
	ttl      time.Duration
	items    map[string]SentAlert
	mu       sync.RWMutex
}

func NewFileCache(filePath string, ttl time.Duration) *FileCache {
	return &FileCache{
		filePath: filePath,
		ttl:      ttl,
		items:    make(map[string]SentAlert),
	}
}

// Load reads the cache file, dropping entries older than the TTL. A
// missing or empty file is a fresh start, not an error.
func (fc *FileCache) Load() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	data, err := os.ReadFile(fc.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading notify cache: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var alerts []SentAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return fmt.Errorf("decoding notify cache: %w", err)
	}

	cutoff := time.Now().Add(-fc.ttl)
	for _, a := range alerts {
		if a.SentAt.After(cutoff) {
			fc.items[a.Hash] = a
		}
	}
	return nil
}

// Save writes the current cache back to disk.
func (fc *FileCache) Save() error {
	fc.mu.RLock()
	alerts := make([]SentAlert, 0, len(fc.items))
	for _, a := range fc.items {
		alerts = append(alerts, a)
	}
	fc.mu.RUnlock()

	data, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notify cache: %w", err)
	}
	if err := os.WriteFile(fc.filePath, data, 0o644); err != nil {
		return fmt.Errorf("writing notify cache: %w", err)
	}
	return nil
}

// IsSent reports whether an alert hash was pushed within the TTL window.
func (fc *FileCache) IsSent(hash string) bool {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	a, exists := fc.items[hash]
	if !exists {
		return false
	}
	return a.SentAt.After(time.Now().Add(-fc.ttl))
}

// MarkSent records an alert as pushed.
func (fc *FileCache) MarkSent(hash, title, link, location, source string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	fc.items[hash] = SentAlert{
		Hash:     hash,
		Title:    title,
		Link:     link,
		Location: location,
		SentAt:   time.Now(),
		Source:   source,
	}
}

// Cleanup drops expired entries from memory.
func (fc *FileCache) Cleanup() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	cutoff := time.Now().Add(-fc.ttl)
	for hash, a := range fc.items {
		if a.SentAt.Before(cutoff) {
			delete(fc.items, hash)
		}
	}
}

// Stats returns cache statistics.
func (fc *FileCache) Stats() map[string]int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	return map[string]int{
		"total_items": len(fc.items),
	}
}

// AlertHash is the stable notification identity for an alert: normalized
// title plus the link's domain, so the same report seen under a slightly
// different URL path still counts as sent.
func AlertHash(title, link string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	normalized = strings.Join(strings.Fields(normalized), " ")

	h := sha256.New()
	h.Write([]byte(normalized + "|" + linkDomain(link)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func linkDomain(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
