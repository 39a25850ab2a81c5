// Package cli implements the command-line interface for conf-events.
//
// The cli package provides the Cobra-based CLI: "serve" starts the HTTP
// endpoint, "fetch" runs one aggregate crawl and prints the result as text or
// JSON. Both build the same pipeline from configuration: one HTTP client
// shared by the Site A and Site B crawlers, joined by the aggregator.
package cli
