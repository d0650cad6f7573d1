// Package app wires one scan cycle end to end: fetch, normalize, filter,
// dedupe, rank, publish, notify.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kiliwatch/tzscan/internal/config"
	"github.com/kiliwatch/tzscan/internal/feed"
	"github.com/kiliwatch/tzscan/internal/logger"
	"github.com/kiliwatch/tzscan/internal/metrics"
	"github.com/kiliwatch/tzscan/internal/publish"
	"github.com/kiliwatch/tzscan/internal/report"
	"github.com/kiliwatch/tzscan/internal/retry"
	"github.com/kiliwatch/tzscan/internal/scan"
	"github.com/kiliwatch/tzscan/internal/scrape"
)

// Run executes one scan cycle. Partial source failures shrink the input;
// only broken configuration or unwritable output fails the run.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	defer func() {
		metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	scope, err := config.LoadScope(cfg.ScopeConfigPath)
	if err != nil {
		metrics.Status.SetError(err.Error())
		return err
	}

	raw := collect(ctx, cfg, scope)
	metrics.ItemsCollected.Add(float64(len(raw)))

	now := time.Now().In(scope.Location)
	rep, digest := Pipeline(raw, scope, cfg.DigestMaxLineRunes, now)

	records, err := rep.JSON()
	if err != nil {
		metrics.Status.SetError(err.Error())
		return fmt.Errorf("encoding records: %w", err)
	}
	if err := publish.WriteArtifacts(cfg.DataDir, records, digest); err != nil {
		metrics.Status.SetError(err.Error())
		return err
	}
	logger.Info("artifacts written", "dir", cfg.DataDir, "entries", rep.Count)

	if err := notify(ctx, cfg, rep); err != nil {
		// A failed push does not invalidate the published artifacts.
		logger.Error("notification failed", "err", err)
	}

	metrics.Status.SetLastRun()
	return nil
}

// collect gathers raw entries from the feed registry and the advisory
// pages. Every failure here is soft.
func collect(ctx context.Context, cfg *config.Config, scope *config.ScopeConfig) []scan.RawItem {
	rc := retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
	fetcher := feed.NewFetcher(cfg.RequestTimeout, rc)
	sources := feed.BuildRegistry(scope.Queries, scope.Feeds)
	raw := fetcher.FetchAll(ctx, sources)

	for _, page := range scope.AdvisoryPages {
		items, err := scrape.FetchAdvisories(ctx, page, cfg.RequestTimeout)
		if err != nil {
			logger.Warn("advisory page failed", "url", page, "err", err)
			continue
		}
		raw = append(raw, items...)
	}
	return raw
}

// Pipeline runs the pure core over the collected entries: normalize,
// filter, dedupe, rank, format. The clock is a parameter, so a whole run
// is replayable byte for byte.
func Pipeline(raw []scan.RawItem, scope *config.ScopeConfig, digestMaxLineRunes int, now time.Time) (report.Report, string) {
	var matched []scan.Match
	for _, r := range raw {
		item, ok := scan.Normalize(r)
		if !ok {
			continue
		}
		m, ok := scan.Filter(item, scope.Scan, now)
		if !ok {
			continue
		}
		matched = append(matched, m)
	}
	metrics.ItemsMatched.Add(float64(len(matched)))

	deduped := scan.Dedupe(matched)
	metrics.DuplicatesCollapsed.Add(float64(len(matched) - len(deduped)))

	ranked := scan.Rank(deduped)
	rep := report.Build(ranked, now, scope.Location, scope.DefaultLocation, scope.MaxItems)
	return rep, report.Digest(rep, digestMaxLineRunes)
}
