package event

// Batch holds the events extracted from a single listing page, in page order
type Batch []*Event

// CrawlPlan records how many pages of a source are crawled in one run
type CrawlPlan struct {
	Source     Source
	TotalPages int
}

// NewCrawlPlan creates a CrawlPlan. Anything below one page is raised to one,
// since the first page is always crawled.
func NewCrawlPlan(source Source, totalPages int) CrawlPlan {
	if totalPages < 1 {
		totalPages = 1
	}
	return CrawlPlan{Source: source, TotalPages: totalPages}
}

// Flatten concatenates batches in order. The result is never nil.
func Flatten(batches []Batch) []*Event {
	n := 0
	for _, b := range batches {
		n += len(b)
	}

	events := make([]*Event, 0, n)
	for _, b := range batches {
		events = append(events, b...)
	}
	return events
}

// Dedup removes events whose StableKey was already seen, keeping the first
// occurrence and the relative order of the rest
func Dedup(events []*Event) []*Event {
	seen := make(map[string]bool)
	unique := make([]*Event, 0, len(events))
	for _, evt := range events {
		key := StableKey(evt)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, evt)
	}
	return unique
}
