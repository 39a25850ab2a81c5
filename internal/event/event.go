package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Source identifies the listing site an event was scraped from
type Source string

const (
	SiteA Source = "siteA"
	SiteB Source = "siteB"
)

// Event represents one conference listing
type Event struct {
	Title     string `json:"title"`
	Date      string `json:"date"`       // Free text as published, may be a range
	Organizer string `json:"organizers"`
	Link      string `json:"link"`
	Location  string `json:"location"`
	Source    Source `json:"source"`
}

// NewEvent creates a new Event for the given source
func NewEvent(source Source, title, date, organizer, location, link string) *Event {
	return &Event{
		Title:     title,
		Date:      date,
		Organizer: organizer,
		Link:      link,
		Location:  location,
		Source:    source,
	}
}

// Complete reports whether every semantic field is non-empty
func (e *Event) Complete() bool {
	return e.Title != "" && e.Date != "" && e.Organizer != "" && e.Location != "" && e.Link != ""
}

// StableKey creates an identifier based on the normalized title and date.
// Two listings of the same conference on different sites share a key as long
// as both publish the same title and date text.
func StableKey(e *Event) string {
	h := sha1.New()
	h.Write([]byte(normalize(e.Title) + "|" + normalize(e.Date)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
