// Package aggregator merges the crawls of every listing site into one ordered
// list of events.
package aggregator

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/conf-events/internal/event"
	"github.com/pfrederiksen/conf-events/internal/logger"
	"github.com/pfrederiksen/conf-events/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Precedence is the order in which sources appear in the merged output.
// Within a source, events keep page order.
var Precedence = []event.Source{event.SiteB, event.SiteA}

// Crawler produces the ordered page batches of one source
type Crawler interface {
	Source() event.Source
	Crawl(ctx context.Context) ([]event.Batch, error)
}

// Options tune an aggregate run
type Options struct {
	// Timeout bounds the whole run; zero leaves only the caller's deadline
	Timeout time.Duration
	// Dedup drops later events sharing a title and date with an earlier one
	Dedup bool
}

// Aggregator runs every crawler concurrently and merges their output
type Aggregator struct {
	crawlers map[event.Source]Crawler
	opts     Options
}

// New creates an Aggregator. Every source in Precedence needs a crawler.
func New(opts Options, crawlers ...Crawler) (*Aggregator, error) {
	bySource := make(map[event.Source]Crawler, len(crawlers))
	for _, c := range crawlers {
		bySource[c.Source()] = c
	}
	for _, source := range Precedence {
		if bySource[source] == nil {
			return nil, fmt.Errorf("no crawler for source %s", source)
		}
	}

	return &Aggregator{
		crawlers: bySource,
		opts:     opts,
	}, nil
}

// Aggregate crawls all sources and returns their events in Precedence order.
// Fetch failures only shrink the result. An error is returned only when a
// crawler can't start, such as for a malformed base URL.
func (a *Aggregator) Aggregate(ctx context.Context) ([]*event.Event, error) {
	start := time.Now()
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	results := make([][]*event.Event, len(Precedence))

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range Precedence {
		i, source := i, source
		crawler := a.crawlers[source]
		g.Go(func() error {
			batches, err := crawler.Crawl(gctx)
			if err != nil {
				return fmt.Errorf("crawling %s: %w", source, err)
			}
			results[i] = event.Flatten(batches)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		metrics.AggregateRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	merged := make([]*event.Event, 0)
	for i, source := range Precedence {
		metrics.EventsCollected.WithLabelValues(string(source)).Set(float64(len(results[i])))
		merged = append(merged, results[i]...)
	}

	if a.opts.Dedup {
		merged = event.Dedup(merged)
	}

	elapsed := time.Since(start)
	metrics.AggregateRunsTotal.WithLabelValues("ok").Inc()
	metrics.AggregateDuration.Observe(elapsed.Seconds())
	logger.Info("aggregate complete", logger.Fields{
		"events":   len(merged),
		"duration": elapsed.String(),
	})

	return merged, nil
}
