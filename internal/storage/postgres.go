package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kiliwatch/tzscan/internal/logger"
)

// PostgresCache keeps sent alerts in PostgreSQL, for deployments where the
// scanner runs on ephemeral workers and a local file would not survive.
type PostgresCache struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPostgresCache(connectionString string, ttl time.Duration) (*PostgresCache, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pc := &PostgresCache{db: db, ttl: ttl}
	if err := pc.initSchema(); err != nil {
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return pc, nil
}

func (pc *PostgresCache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sent_alerts (
		id SERIAL PRIMARY KEY,
		hash VARCHAR(64) UNIQUE NOT NULL,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		location VARCHAR(100),
		source VARCHAR(200),
		sent_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_sent_alerts_hash ON sent_alerts(hash);
	CREATE INDEX IF NOT EXISTS idx_sent_alerts_sent_at ON sent_alerts(sent_at);
	`
	if _, err := pc.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// IsSent reports whether an alert hash was pushed within the TTL window.
// Lookup errors count as "not sent"; a duplicate notification beats a
// silently dropped one.
func (pc *PostgresCache) IsSent(hash string) bool {
	cutoff := time.Now().Add(-pc.ttl)

	var count int
	err := pc.db.QueryRow(
		`SELECT COUNT(*) FROM sent_alerts WHERE hash = $1 AND sent_at > $2`,
		hash, cutoff,
	).Scan(&count)
	if err != nil {
		logger.Warn("notify cache lookup failed", "err", err)
		return false
	}
	return count > 0
}

// MarkSent records an alert as pushed. ON CONFLICT refreshes the timestamp
// so concurrent workers don't race on the unique hash.
func (pc *PostgresCache) MarkSent(hash, title, link, location, source string) error {
	_, err := pc.db.Exec(`
		INSERT INTO sent_alerts (hash, title, link, location, source, sent_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (hash) DO UPDATE SET sent_at = NOW()
	`, hash, title, link, location, source)
	if err != nil {
		return fmt.Errorf("marking alert as sent: %w", err)
	}
	return nil
}

// Cleanup deletes entries older than the TTL.
func (pc *PostgresCache) Cleanup() error {
	cutoff := time.Now().Add(-pc.ttl)

	result, err := pc.db.Exec(`DELETE FROM sent_alerts WHERE sent_at < $1`, cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up notify cache: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		logger.Debug("expired notify cache entries removed", "rows", rows)
	}
	return nil
}

// Stats returns cache statistics.
func (pc *PostgresCache) Stats() (map[string]int, error) {
	stats := make(map[string]int)

	var total int
	if err := pc.db.QueryRow(`SELECT COUNT(*) FROM sent_alerts`).Scan(&total); err != nil {
		return nil, err
	}
	stats["total_items"] = total

	cutoff := time.Now().Add(-pc.ttl)
	var active int
	if err := pc.db.QueryRow(`SELECT COUNT(*) FROM sent_alerts WHERE sent_at > $1`, cutoff).Scan(&active); err != nil {
		return nil, err
	}
	stats["active_items"] = active

	return stats, nil
}

func (pc *PostgresCache) Close() error {
	return pc.db.Close()
}
