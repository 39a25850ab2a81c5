// Package scraper fetches and parses the conference listing sites.
//
// Each listing site is described by a Site: how to build the URL of page N,
// how to read the page count from the first page's pagination markup, and how
// to turn one page into an event.Batch. A Crawler drives a Site through a
// Fetcher, probing page 1 first and then fetching the remaining pages in
// parallel. Markup problems never fail a crawl: missing fields, missing
// pagination and failed fetches all degrade to less data. Only a malformed
// base URL (ConfigError) aborts.
package scraper
