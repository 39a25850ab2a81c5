package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-events/internal/event"
)

// Site describes one listing site
type Site interface {
	Source() event.Source
	// PageURL builds the listing URL of a 1-based page
	PageURL(page int) (string, error)
	// TotalPages reads the page count from the first listing page
	TotalPages(doc *goquery.Document) int
	// Extract returns the events of one page; pageURL resolves relative links
	Extract(doc *goquery.Document, pageURL string) event.Batch
}

// ConfigError reports a base URL no page URL can be derived from
type ConfigError struct {
	Source  event.Source
	BaseURL string
	Cause   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid base URL %q for %s: %v", e.BaseURL, e.Source, e.Cause)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// parseBase validates an absolute http(s) base URL
func parseBase(source event.Source, raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &ConfigError{Source: source, BaseURL: raw, Cause: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigError{Source: source, BaseURL: raw, Cause: errors.New("scheme must be http or https")}
	}
	if u.Host == "" {
		return nil, &ConfigError{Source: source, BaseURL: raw, Cause: errors.New("missing host")}
	}
	return u, nil
}

// ValidateSite checks that the site can build its first page URL
func ValidateSite(site Site) error {
	_, err := site.PageURL(1)
	return err
}

// text returns the trimmed text of sel with inner whitespace collapsed.
// An empty selection yields "".
func text(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// resolveLink makes href absolute against pageURL. Hrefs that don't parse
// are returned as published.
func resolveLink(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
