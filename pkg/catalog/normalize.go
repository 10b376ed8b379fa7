package catalog

import (
	"strings"
	"time"

	"github.com/m-hamwi/yalla/pkg/model"
)

const (
	defaultTitle    = "Untitled Event"
	defaultPrice    = "Free"
	defaultCategory = "Other"
)

// NormalizeEvent maps one raw scraper record into the canonical form.
// Missing fields get safe defaults; nothing here can fail.
func NormalizeEvent(raw model.RawEvent, source string, now time.Time) model.Event {
	// The ID derives from the raw title so that untitled records fall back
	// to a random ID instead of all colliding on the default title slug.
	id := model.NewEventID(source, strings.TrimSpace(raw.ID), strings.TrimSpace(raw.Title))

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = defaultTitle
	}

	start := ResolveDate(raw.Date, now)

	var end *time.Time
	if strings.TrimSpace(raw.EndDate) != "" {
		e := ResolveDate(raw.EndDate, now)
		end = &e
	}

	price := strings.TrimSpace(raw.Price.String())
	if price == "" {
		price = defaultPrice
	}

	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = defaultCategory
	}

	return model.Event{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(raw.Description),
		StartDate:   start,
		EndDate:     end,
		Time:        strings.TrimSpace(raw.Time),
		Price:       price,
		Category:    category,
		Venue:       strings.TrimSpace(raw.Venue.String()),
		Organizer:   strings.TrimSpace(raw.Organizer.String()),
		Image:       strings.TrimSpace(raw.Image),
		Link:        strings.TrimSpace(raw.Link),
		Source:      source,
		DateDisplay: strings.TrimSpace(raw.DateDisplay),
	}
}

// NormalizeBatch normalizes a whole scraper batch in input order.
func NormalizeBatch(raws []model.RawEvent, source string, now time.Time) []model.Event {
	events := make([]model.Event, 0, len(raws))
	for _, raw := range raws {
		events = append(events, NormalizeEvent(raw, source, now))
	}
	return events
}
