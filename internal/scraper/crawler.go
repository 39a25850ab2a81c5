package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-events/internal/event"
	"github.com/pfrederiksen/conf-events/internal/logger"
	"github.com/pfrederiksen/conf-events/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxParallel bounds concurrent page fetches per crawl
const DefaultMaxParallel = 4

// Crawler walks every listing page of one site
type Crawler struct {
	site        Site
	fetcher     Fetcher
	maxParallel int
}

// NewCrawler creates a Crawler. maxParallel below 1 uses DefaultMaxParallel.
func NewCrawler(site Site, fetcher Fetcher, maxParallel int) *Crawler {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	return &Crawler{
		site:        site,
		fetcher:     fetcher,
		maxParallel: maxParallel,
	}
}

// Source returns the source of the crawled site
func (c *Crawler) Source() event.Source {
	return c.site.Source()
}

// Crawl returns one batch per page, in page order.
//
// Page 1 is fetched first to plan the crawl and its document is reused.
// If it can't be fetched the crawl yields a single empty batch. Pages 2..N
// are fetched concurrently and a page that fails becomes an empty batch.
// The only error returned is a *ConfigError.
func (c *Crawler) Crawl(ctx context.Context) ([]event.Batch, error) {
	start := time.Now()
	source := c.site.Source()

	firstURL, err := c.site.PageURL(1)
	if err != nil {
		return nil, err
	}

	first, err := c.fetchDocument(ctx, firstURL)
	if err != nil {
		logger.Warn("first page unavailable, skipping pagination", logger.Fields{
			"source": source,
			"url":    firstURL,
		}, err)
		return []event.Batch{{}}, nil
	}

	plan := event.NewCrawlPlan(source, c.site.TotalPages(first))
	logger.Info("crawl planned", logger.Fields{
		"source":      plan.Source,
		"total_pages": plan.TotalPages,
	})

	batches := make([]event.Batch, plan.TotalPages)
	batches[0] = c.site.Extract(first, firstURL)

	g := new(errgroup.Group)
	g.SetLimit(c.maxParallel)
	for page := 2; page <= plan.TotalPages; page++ {
		page := page
		g.Go(func() error {
			batches[page-1] = c.crawlPage(ctx, page)
			return nil
		})
	}
	// Page tasks absorb their own failures
	_ = g.Wait()

	elapsed := time.Since(start)
	logger.RecordTiming("crawl."+string(source), elapsed)
	metrics.CrawlDuration.WithLabelValues(string(source)).Observe(elapsed.Seconds())
	return batches, nil
}

func (c *Crawler) crawlPage(ctx context.Context, page int) event.Batch {
	pageURL, err := c.site.PageURL(page)
	if err != nil {
		return event.Batch{}
	}

	doc, err := c.fetchDocument(ctx, pageURL)
	if err != nil {
		logger.Warn("page fetch failed", logger.Fields{
			"source": c.site.Source(),
			"page":   page,
			"url":    pageURL,
		}, err)
		return event.Batch{}
	}

	batch := c.site.Extract(doc, pageURL)
	logger.Debug("page extracted", logger.Fields{
		"source": c.site.Source(),
		"page":   page,
		"events": len(batch),
	})
	return batch
}

func (c *Crawler) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.IncrCounter("fetch.failed")
		return nil, err
	}
	logger.IncrCounter("fetch.ok")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML from %s: %w", pageURL, err)
	}
	return doc, nil
}
