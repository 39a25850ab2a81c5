package scraper

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-events/internal/event"
)

const (
	SiteBBaseURL   = "https://konferencii.ru/calendar"
	DefaultCountry = "Россия"
	DateLayout     = "02.01.2006"
)

// DefaultOrganizerLabels are the prefixes that mark the organizers paragraph
var DefaultOrganizerLabels = []string{"Организаторы:", "Organizers:"}

const (
	siteBBlock     = "div.conference"
	siteBTitle     = "div.title a"
	siteBDate      = "div.date"
	siteBLocation  = "div.location b"
	siteBPager     = ".pager"
	siteBPageItems = "li.page"
)

// dateSeparators end the start date of a "from - to" range
const dateSeparators = "-–—"

// SiteB scrapes the calendar listing at base/date/<DD.MM.YYYY>?page=N,
// where the date is today.
//
// Only complete events located in Country are emitted. Listings missing any
// field, or held elsewhere, are dropped.
type SiteB struct {
	BaseURL         string
	Country         string
	OrganizerLabels []string
	Now             func() time.Time
}

// NewSiteB creates a Site B scraper filtering on country
func NewSiteB(baseURL, country string, labels []string) *SiteB {
	if len(labels) == 0 {
		labels = DefaultOrganizerLabels
	}
	return &SiteB{
		BaseURL:         baseURL,
		Country:         country,
		OrganizerLabels: labels,
		Now:             time.Now,
	}
}

func (s *SiteB) Source() event.Source {
	return event.SiteB
}

func (s *SiteB) PageURL(page int) (string, error) {
	base, err := parseBase(event.SiteB, s.BaseURL)
	if err != nil {
		return "", err
	}

	u := base.JoinPath("date", s.Now().Format(DateLayout))
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TotalPages counts the page items of the pager, 1 when there is no pager
func (s *SiteB) TotalPages(doc *goquery.Document) int {
	pager := doc.Find(siteBPager).First()
	if pager.Length() == 0 {
		return 1
	}

	if total := pager.Find(siteBPageItems).Length(); total > 1 {
		return total
	}
	return 1
}

func (s *SiteB) Extract(doc *goquery.Document, pageURL string) event.Batch {
	batch := make(event.Batch, 0)

	doc.Find(siteBBlock).Each(func(_ int, block *goquery.Selection) {
		location := text(block.Find(siteBLocation).First())
		if location == "" || !strings.HasPrefix(location, s.Country) {
			return
		}

		anchor := block.Find(siteBTitle).First()
		href, _ := anchor.Attr("href")

		evt := event.NewEvent(
			event.SiteB,
			text(anchor),
			startDate(text(block.Find(siteBDate).First())),
			s.organizer(block),
			location,
			resolveLink(pageURL, href),
		)
		if !evt.Complete() {
			return
		}
		batch = append(batch, evt)
	})

	return batch
}

// organizer returns the first paragraph starting with one of the labels,
// label removed
func (s *SiteB) organizer(block *goquery.Selection) string {
	var organizer string
	block.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		line := text(p)
		for _, label := range s.OrganizerLabels {
			if strings.HasPrefix(line, label) {
				organizer = strings.TrimSpace(strings.TrimPrefix(line, label))
				return false
			}
		}
		return true
	})
	return organizer
}

// startDate keeps the text before the first dash of a date range
func startDate(date string) string {
	if i := strings.IndexAny(date, dateSeparators); i >= 0 {
		date = date[:i]
	}
	return strings.TrimSpace(date)
}
