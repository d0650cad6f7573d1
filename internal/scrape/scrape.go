// Package scrape pulls advisory listings that are published as plain HTML
// rather than syndication feeds (embassy security alerts and the like).
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kiliwatch/tzscan/internal/scan"
)

// FetchAdvisories downloads one advisory listing page and extracts its
// entries as raw items, same shape the feed fetcher produces.
func FetchAdvisories(ctx context.Context, pageURL string, timeout time.Duration) ([]scan.RawItem, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; tzscan/1.0)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loading advisory page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisory page %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing advisory page %s: %w", pageURL, err)
	}

	return extractEntries(doc, pageSource(doc, pageURL), time.Now()), nil
}

func pageSource(doc *goquery.Document, pageURL string) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return pageURL
}

// extractEntries walks the usual listing layouts: <article> blocks first,
// then list items carrying a link.
func extractEntries(doc *goquery.Document, source string, fetchedAt time.Time) []scan.RawItem {
	var items []scan.RawItem

	doc.Find("article").Each(func(_ int, sel *goquery.Selection) {
		if item, ok := entryFromSelection(sel, source, fetchedAt); ok {
			items = append(items, item)
		}
	})
	if len(items) > 0 {
		return items
	}

	doc.Find("ul li, ol li").Each(func(_ int, sel *goquery.Selection) {
		if sel.Find("a").Length() == 0 {
			return
		}
		if item, ok := entryFromSelection(sel, source, fetchedAt); ok {
			items = append(items, item)
		}
	})
	return items
}

func entryFromSelection(sel *goquery.Selection, source string, fetchedAt time.Time) (scan.RawItem, bool) {
	link := sel.Find("a").First()
	title := strings.TrimSpace(link.Text())
	if title == "" {
		title = strings.TrimSpace(sel.Find("h1, h2, h3").First().Text())
	}
	href, _ := link.Attr("href")
	summary := strings.TrimSpace(sel.Find("p").First().Text())

	published := strings.TrimSpace(sel.Find("time").First().AttrOr("datetime", ""))
	if published == "" {
		published = strings.TrimSpace(sel.Find("time").First().Text())
	}

	if title == "" && summary == "" {
		return scan.RawItem{}, false
	}
	return scan.RawItem{
		Title:     title,
		Summary:   summary,
		Link:      href,
		Published: published,
		Source:    source,
		FetchedAt: fetchedAt,
	}, true
}
