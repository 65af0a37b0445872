// Package ingest imports events from a parish calendar web page.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/model"
)

const (
	defaultHour     = 10
	defaultDuration = time.Hour
)

var (
	dateRegex = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	timeRegex = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`)
)

// CalendarScraper reads one event per ItemSelector match. The other
// selectors are relative to the item.
type CalendarScraper struct {
	URL              string
	ItemSelector     string
	TitleSelector    string
	DateSelector     string
	TimeSelector     string
	LocationSelector string
	Zone             *time.Location
	Client           *http.Client
}

// NewCalendarScraper returns a scraper with the default markup used by the
// parish site: <li class="event"> items with h3 titles and <time> tags.
func NewCalendarScraper(url string) *CalendarScraper {
	return &CalendarScraper{
		URL:              url,
		ItemSelector:     "li.event",
		TitleSelector:    "h3",
		DateSelector:     ".date",
		TimeSelector:     ".time",
		LocationSelector: ".location",
	}
}

func (s *CalendarScraper) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// Fetch returns the events listed on the page. Items without a title or a
// YYYY-MM-DD date are skipped.
func (s *CalendarScraper) Fetch(ctx context.Context) ([]model.Event, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	zone := s.Zone
	if zone == nil {
		zone = time.Local
	}

	var events []model.Event
	doc.Find(s.ItemSelector).Each(func(i int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(s.TitleSelector).First().Text())
		if title == "" {
			return
		}
		dateSel := item.Find(s.DateSelector).First()
		dateText, ok := dateSel.Attr("datetime")
		if !ok {
			dateText = dateSel.Text()
		}
		startsAt, ok := parseStart(dateText, item.Find(s.TimeSelector).First().Text(), zone)
		if !ok {
			log.Debug().Str("title", title).Str("date", dateText).Msg("Skipping calendar item without date")
			return
		}

		e := model.Event{
			Title:    title,
			StartsAt: startsAt,
			EndsAt:   startsAt.Add(defaultDuration),
		}
		if s.LocationSelector != "" {
			if loc := strings.TrimSpace(item.Find(s.LocationSelector).First().Text()); loc != "" {
				e.Location = &loc
			}
		}
		events = append(events, e)
	})
	return events, nil
}

// parseStart combines a YYYY-MM-DD date with an optional HH:MM time,
// defaulting to 10:00.
func parseStart(dateText, timeText string, zone *time.Location) (time.Time, bool) {
	m := dateRegex.FindStringSubmatch(dateText)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation("2006-01-02", m[1], zone)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute := defaultHour, 0
	if tm := timeRegex.FindStringSubmatch(timeText); tm != nil {
		h, _ := strconv.Atoi(tm[1])
		mi, _ := strconv.Atoi(tm[2])
		if h < 24 && mi < 60 {
			hour, minute = h, mi
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, zone), true
}

// Store is what Import needs from db.Store.
type Store interface {
	FindEvent(title string, startsAt time.Time) (model.Event, error)
	CreateEvent(e model.Event) (model.Event, error)
}

type Source interface {
	Fetch(ctx context.Context) ([]model.Event, error)
}

type Result struct {
	Found   int           `json:"found"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Events  []model.Event `json:"events"`
}

// Import creates the scraped events that are not stored yet. An event
// matches an existing one when title and start time are equal.
func Import(ctx context.Context, store Store, src Source, createdBy int) (Result, error) {
	found, err := src.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{Found: len(found), Events: []model.Event{}}
	for _, e := range found {
		_, err := store.FindEvent(e.Title, e.StartsAt)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return res, fmt.Errorf("looking up %q: %w", e.Title, err)
		}
		e.CreatedBy = createdBy
		created, err := store.CreateEvent(e)
		if err != nil {
			return res, fmt.Errorf("creating %q: %w", e.Title, err)
		}
		res.Created++
		res.Events = append(res.Events, created)
	}
	log.Info().Int("found", res.Found).Int("created", res.Created).Int("skipped", res.Skipped).Msg("Calendar import finished")
	return res, nil
}
