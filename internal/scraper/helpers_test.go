package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// fakeFetcher serves canned pages by URL
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	fail   map[string]bool
	delays map[string]time.Duration
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:  make(map[string]string),
		fail:   make(map[string]bool),
		delays: make(map[string]time.Duration),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	delay := f.delays[url]
	fail := f.fail[url]
	body, ok := f.pages[url]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", &FetchError{URL: url, Cause: ctx.Err()}
		}
	}
	if fail {
		return "", &FetchError{URL: url, Cause: errors.New("connection refused")}
	}
	if !ok {
		return "", &FetchError{URL: url, Cause: errors.New("unexpected status code: 404")}
	}
	return body, nil
}

func (f *fakeFetcher) called(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == url {
			return true
		}
	}
	return false
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

// siteAPage renders a Site A listing page with one event per title
func siteAPage(pageLinks []string, titles ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, title := range titles {
		fmt.Fprintf(&b, `<div class="row-fluid event-head">
			<h4><a href="/conferences/view/%d">%s</a></h4>
			<span class="alert-info dates">0%d.03.2026</span>
			<span class="city">Москва</span>
			<p class="sponsor">Оргкомитет</p>
		</div>`, i+1, title, i+1)
	}
	if pageLinks != nil {
		b.WriteString(`<div class="pagination"><ul>`)
		for _, l := range pageLinks {
			fmt.Fprintf(&b, `<li class="page"><a href="#">%s</a></li>`, l)
		}
		b.WriteString("</ul></div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

// siteBPage renders a Site B listing page; locations are paired with titles
func siteBPage(pages int, events ...[2]string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, e := range events {
		fmt.Fprintf(&b, `<div class="conference">
			<div class="title"><a href="/conf/%d">%s</a></div>
			<div class="date">0%d.04.2026 - 0%d.04.2026</div>
			<p>Организаторы: Оргкомитет</p>
			<div class="location"><b>%s</b></div>
		</div>`, i+1, e[0], i+1, i+2, e[1])
	}
	if pages > 0 {
		b.WriteString(`<ul class="pager">`)
		for p := 1; p <= pages; p++ {
			fmt.Fprintf(&b, `<li class="page"><a href="?page=%d">%d</a></li>`, p, p)
		}
		b.WriteString("</ul>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
