package feed

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kiliwatch/tzscan/internal/logger"
	"github.com/kiliwatch/tzscan/internal/metrics"
	"github.com/kiliwatch/tzscan/internal/retry"
	"github.com/kiliwatch/tzscan/internal/scan"
)

// Fetcher downloads and parses the registry's feeds.
type Fetcher struct {
	parser *gofeed.Parser
	retry  retry.Config
}

func NewFetcher(timeout time.Duration, rc retry.Config) *Fetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	return &Fetcher{parser: p, retry: rc}
}

// FetchAll pulls every source sequentially and returns the collected raw
// entries stamped with the fetch time. A source that keeps failing is
// logged and skipped, never fatal.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []scan.RawItem {
	var items []scan.RawItem
	succeeded := 0

	for _, src := range sources {
		var parsed *gofeed.Feed
		err := retry.WithRetry(ctx, f.retry, func() error {
			var ferr error
			parsed, ferr = f.parser.ParseURLWithContext(src.URL, ctx)
			return ferr
		})
		if err != nil {
			logger.Warn("feed fetch failed", "source", src.Name, "err", err)
			metrics.FeedFetches.WithLabelValues("error").Inc()
			continue
		}
		metrics.FeedFetches.WithLabelValues("ok").Inc()
		succeeded++

		sourceName := parsed.Title
		if sourceName == "" {
			sourceName = src.Name
		}
		fetchedAt := time.Now()
		for _, entry := range parsed.Items {
			items = append(items, rawFromEntry(entry, sourceName, fetchedAt))
		}
		logger.Debug("feed fetched", "source", src.Name, "items", len(parsed.Items))
	}

	logger.Info("feeds processed", "ok", succeeded, "total", len(sources), "items", len(items))
	return items
}

func rawFromEntry(entry *gofeed.Item, source string, fetchedAt time.Time) scan.RawItem {
	published := entry.Published
	if published == "" {
		published = entry.Updated
	}
	publishedAt := entry.PublishedParsed
	if publishedAt == nil {
		publishedAt = entry.UpdatedParsed
	}
	return scan.RawItem{
		Title:       entry.Title,
		Summary:     entry.Description,
		Link:        entry.Link,
		Published:   published,
		PublishedAt: publishedAt,
		Source:      source,
		FetchedAt:   fetchedAt,
	}
}
