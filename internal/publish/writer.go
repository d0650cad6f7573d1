// Package publish hands the run's artifacts to their consumers: the static
// site data files and, optionally, a Telegram channel.
package publish

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	RecordsFile = "latest.json"
	DigestFile  = "latest.txt"
)

// WriteArtifacts writes the structured records and the digest under
// dataDir. Both files are written every run, even when empty, so the site
// never serves a stale or missing dataset.
func WriteArtifacts(dataDir string, records []byte, digest string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", dataDir, err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, RecordsFile), records, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", RecordsFile, err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, DigestFile), []byte(digest), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", DigestFile, err)
	}
	return nil
}
