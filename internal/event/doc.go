// Package event provides the conference record model shared by the scrapers,
// the aggregator and the HTTP/CLI boundaries.
//
// An Event is one normalized conference listing. Events are produced per page
// as a Batch, the number of pages crawled for a source is fixed up front by a
// CrawlPlan, and nothing in this package outlives a single aggregate run.
package event
