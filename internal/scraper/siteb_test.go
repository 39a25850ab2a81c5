package scraper

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func fixedSiteB(base string) *SiteB {
	s := NewSiteB(base, DefaultCountry, nil)
	s.Now = func() time.Time {
		return time.Date(2026, time.October, 5, 9, 30, 0, 0, time.UTC)
	}
	return s
}

func TestSiteB_ExtractFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/site_b_page.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}

	s := fixedSiteB(SiteBBaseURL)
	batch := s.Extract(mustDoc(t, string(data)), "https://konferencii.ru/calendar/date/05.10.2026?page=1")

	// Vienna is filtered out, the block without organizers is dropped
	if len(batch) != 2 {
		t.Fatalf("Extract() returned %d events, want 2", len(batch))
	}

	first := batch[0]
	if first.Title != "Химия и технология материалов" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Date != "20.04.2026" {
		t.Errorf("date = %q, want text before the em-dash", first.Date)
	}
	if first.Organizer != "Казанский федеральный университет" {
		t.Errorf("organizer = %q, want label stripped", first.Organizer)
	}
	if first.Location != "Россия, Казань" {
		t.Errorf("location = %q", first.Location)
	}
	if first.Link != "https://konferencii.ru/conf/5501" {
		t.Errorf("link = %q", first.Link)
	}

	if batch[1].Organizer != "МГУ им. М.В. Ломоносова" {
		t.Errorf("organizer = %q, want the labelled paragraph", batch[1].Organizer)
	}

	for _, evt := range batch {
		if !strings.HasPrefix(evt.Location, DefaultCountry) {
			t.Errorf("event located in %q leaked through the country filter", evt.Location)
		}
		if !evt.Complete() {
			t.Errorf("incomplete event emitted: %+v", evt)
		}
	}
}

func TestSiteB_ExtractSingleTargetCountryEvent(t *testing.T) {
	html := siteBPage(0, [2]string{"Физика", "Россия, Новосибирск"})

	batch := fixedSiteB(SiteBBaseURL).Extract(mustDoc(t, html), "https://konferencii.ru/calendar/date/05.10.2026?page=1")
	if len(batch) != 1 {
		t.Fatalf("Extract() returned %d events, want 1", len(batch))
	}
	if batch[0].Source != "siteB" {
		t.Errorf("source = %q, want siteB", batch[0].Source)
	}
	if batch[0].Location != "Россия, Новосибирск" {
		t.Errorf("location = %q", batch[0].Location)
	}
}

func TestSiteB_ExtractMissingFields(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "no title",
			html: `<div class="conference"><div class="date">01.01.2026</div>
				<p>Организаторы: X</p><div class="location"><b>Россия</b></div></div>`,
		},
		{
			name: "no date",
			html: `<div class="conference"><div class="title"><a href="/c">T</a></div>
				<p>Организаторы: X</p><div class="location"><b>Россия</b></div></div>`,
		},
		{
			name: "empty organizer after label",
			html: `<div class="conference"><div class="title"><a href="/c">T</a></div>
				<div class="date">01.01.2026</div><p>Организаторы:   </p><div class="location"><b>Россия</b></div></div>`,
		},
		{
			name: "location not bold",
			html: `<div class="conference"><div class="title"><a href="/c">T</a></div>
				<div class="date">01.01.2026</div><p>Организаторы: X</p><div class="location">Россия</div></div>`,
		},
		{
			name: "anchor without href",
			html: `<div class="conference"><div class="title"><a>T</a></div>
				<div class="date">01.01.2026</div><p>Организаторы: X</p><div class="location"><b>Россия</b></div></div>`,
		},
	}

	s := fixedSiteB(SiteBBaseURL)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := s.Extract(mustDoc(t, tt.html), "https://konferencii.ru/calendar")
			if len(batch) != 0 {
				t.Errorf("Extract() returned %d events, want incomplete record dropped", len(batch))
			}
		})
	}
}

func TestSiteB_CountryFilter(t *testing.T) {
	html := siteBPage(0,
		[2]string{"A", "Россия, Москва"},
		[2]string{"B", "Беларусь, Минск"},
		[2]string{"C", "Казахстан, Алматы (Россия - партнёр)"},
		[2]string{"D", "Россия"},
	)

	batch := fixedSiteB(SiteBBaseURL).Extract(mustDoc(t, html), "https://konferencii.ru/")
	if len(batch) != 2 {
		t.Fatalf("Extract() returned %d events, want 2", len(batch))
	}
	if batch[0].Title != "A" || batch[1].Title != "D" {
		t.Errorf("Extract() kept %q and %q, want A and D", batch[0].Title, batch[1].Title)
	}
}

func TestSiteB_TotalPages(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{"pager with two pages", siteBPage(2), 2},
		{"pager with five pages", siteBPage(5), 5},
		{"no pager", siteBPage(0), 1},
		{"pager without page items", `<ul class="pager"><li class="next">»</li></ul>`, 1},
	}

	s := fixedSiteB(SiteBBaseURL)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.TotalPages(mustDoc(t, tt.html)); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSiteB_PageURL(t *testing.T) {
	got, err := fixedSiteB("https://konferencii.ru/calendar").PageURL(4)
	if err != nil {
		t.Fatalf("PageURL() error: %v", err)
	}
	want := "https://konferencii.ru/calendar/date/05.10.2026?page=4"
	if got != want {
		t.Errorf("PageURL() = %q, want %q", got, want)
	}

	_, err = fixedSiteB("not a url").PageURL(1)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("PageURL() error = %v, want *ConfigError", err)
	}
}

func TestStartDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12.05.2026 - 15.05.2026", "12.05.2026"},
		{"12.05.2026—15.05.2026", "12.05.2026"},
		{"12.05.2026 – 15.05.2026", "12.05.2026"},
		{"12.05.2026", "12.05.2026"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := startDate(tt.in); got != tt.want {
			t.Errorf("startDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSiteB_DefaultLabels(t *testing.T) {
	s := NewSiteB(SiteBBaseURL, DefaultCountry, nil)
	if len(s.OrganizerLabels) != len(DefaultOrganizerLabels) {
		t.Errorf("OrganizerLabels = %v, want defaults", s.OrganizerLabels)
	}

	html := `<div class="conference"><div class="title"><a href="/c">T</a></div>
		<div class="date">01.01.2026</div><p>Organizers: Oxford</p><div class="location"><b>Россия</b></div></div>`
	batch := s.Extract(mustDoc(t, html), "https://konferencii.ru/")
	if len(batch) != 1 || batch[0].Organizer != "Oxford" {
		t.Errorf("English label not stripped: %+v", batch)
	}
}
