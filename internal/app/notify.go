package app

import (
	"context"

	"github.com/kiliwatch/tzscan/internal/config"
	"github.com/kiliwatch/tzscan/internal/logger"
	"github.com/kiliwatch/tzscan/internal/metrics"
	"github.com/kiliwatch/tzscan/internal/publish"
	"github.com/kiliwatch/tzscan/internal/report"
	"github.com/kiliwatch/tzscan/internal/storage"
)

// NotifyCache tracks which alerts were already pushed so reruns stay
// quiet about old reports.
type NotifyCache interface {
	IsSent(hash string) bool
	MarkSent(hash, title, link, location, source string) error
	Flush() error
	Close() error
}

// fileNotifyCache adapts storage.FileCache.
type fileNotifyCache struct {
	cache *storage.FileCache
}

func (f *fileNotifyCache) IsSent(hash string) bool {
	return f.cache.IsSent(hash)
}

func (f *fileNotifyCache) MarkSent(hash, title, link, location, source string) error {
	f.cache.MarkSent(hash, title, link, location, source)
	return nil
}

func (f *fileNotifyCache) Flush() error { return f.cache.Save() }
func (f *fileNotifyCache) Close() error { return nil }

// pgNotifyCache adapts storage.PostgresCache.
type pgNotifyCache struct {
	cache *storage.PostgresCache
}

func (p *pgNotifyCache) IsSent(hash string) bool {
	return p.cache.IsSent(hash)
}

func (p *pgNotifyCache) MarkSent(hash, title, link, location, source string) error {
	return p.cache.MarkSent(hash, title, link, location, source)
}

func (p *pgNotifyCache) Flush() error { return nil }
func (p *pgNotifyCache) Close() error { return p.cache.Close() }

// newNotifyCache builds the configured backend, or nil when notifications
// are disabled.
func newNotifyCache(cfg *config.Config) (NotifyCache, error) {
	switch cfg.NotifyCache {
	case "off":
		return nil, nil
	case "postgres":
		pc, err := storage.NewPostgresCache(cfg.DatabaseURL, cfg.NotifyTTL)
		if err != nil {
			return nil, err
		}
		if err := pc.Cleanup(); err != nil {
			logger.Warn("notify cache cleanup failed", "err", err)
		}
		return &pgNotifyCache{cache: pc}, nil
	default:
		fc := storage.NewFileCache(cfg.NotifyCachePath, cfg.NotifyTTL)
		if err := fc.Load(); err != nil {
			return nil, err
		}
		fc.Cleanup()
		return &fileNotifyCache{cache: fc}, nil
	}
}

// notify pushes digest lines for entries not seen before to Telegram.
// Disabled (or credential-less) setups return without side effects.
func notify(ctx context.Context, cfg *config.Config, rep report.Report) error {
	tg := publish.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, cfg.RequestTimeout)
	if !tg.Enabled() || cfg.NotifyCache == "off" || rep.Count == 0 {
		return nil
	}

	cache, err := newNotifyCache(cfg)
	if err != nil {
		return err
	}
	if cache == nil {
		return nil
	}
	defer cache.Close()

	var fresh []report.Entry
	for _, e := range rep.Entries {
		if cache.IsSent(storage.AlertHash(e.Title, e.Link)) {
			continue
		}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		logger.Info("no new alerts to notify")
		return nil
	}

	text := report.Digest(report.Report{Entries: fresh, Count: len(fresh)}, cfg.DigestMaxLineRunes)
	if err := tg.SendDigest(ctx, text); err != nil {
		return err
	}
	metrics.NotificationsSent.Add(float64(len(fresh)))
	logger.Info("alerts notified", "count", len(fresh))

	for _, e := range fresh {
		hash := storage.AlertHash(e.Title, e.Link)
		if err := cache.MarkSent(hash, e.Title, e.Link, e.Location, e.Source); err != nil {
			logger.Warn("marking alert as sent failed", "title", e.Title, "err", err)
		}
	}
	return cache.Flush()
}
