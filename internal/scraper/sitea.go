package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/conf-events/internal/event"
)

const (
	SiteABaseURL = "https://konferen.ru/conferences"
	DefaultYear  = 2026
)

// Placeholders published for Site A fields that could not be located
const (
	TitleNotFound     = "Название не найдено"
	DateNotFound      = "Дата не найдена"
	OrganizerNotFound = "Организаторы не найдены"
	LocationNotFound  = "Место проведения не найдено"
	LinkNotFound      = "Ссылка не найдена"
)

const (
	siteABlock      = "div.row-fluid.event-head"
	siteATitle      = "h4 a"
	siteADate       = "span.alert-info.dates"
	siteAOrganizer  = "p.sponsor"
	siteALocation   = "span.city"
	siteAPagination = "div.pagination"
)

// SiteA scrapes the yearly conference listing at base/<year>/<page>.
//
// Every event block found on a page is emitted. Fields that cannot be
// located are filled with the "not found" placeholders above rather than
// dropping the listing.
type SiteA struct {
	BaseURL string
	Year    int
}

// NewSiteA creates a Site A scraper for the given listing year
func NewSiteA(baseURL string, year int) *SiteA {
	return &SiteA{
		BaseURL: baseURL,
		Year:    year,
	}
}

func (s *SiteA) Source() event.Source {
	return event.SiteA
}

func (s *SiteA) PageURL(page int) (string, error) {
	base, err := parseBase(event.SiteA, s.BaseURL)
	if err != nil {
		return "", err
	}
	return base.JoinPath(strconv.Itoa(s.Year), strconv.Itoa(page)).String(), nil
}

// TotalPages returns the number on the last pagination link, or 1 when
// there is no pagination or the last link isn't a page number
func (s *SiteA) TotalPages(doc *goquery.Document) int {
	links := doc.Find(siteAPagination).First().Find("a")
	if links.Length() == 0 {
		return 1
	}

	total, err := strconv.Atoi(strings.TrimSpace(links.Last().Text()))
	if err != nil || total < 1 {
		return 1
	}
	return total
}

func (s *SiteA) Extract(doc *goquery.Document, pageURL string) event.Batch {
	batch := make(event.Batch, 0)

	doc.Find(siteABlock).Each(func(_ int, block *goquery.Selection) {
		anchor := block.Find(siteATitle).First()
		href, _ := anchor.Attr("href")

		batch = append(batch, event.NewEvent(
			event.SiteA,
			orDefault(text(anchor), TitleNotFound),
			orDefault(text(block.Find(siteADate).First()), DateNotFound),
			orDefault(text(block.Find(siteAOrganizer).First()), OrganizerNotFound),
			orDefault(text(block.Find(siteALocation).First()), LocationNotFound),
			orDefault(resolveLink(pageURL, href), LinkNotFound),
		))
	})

	return batch
}
