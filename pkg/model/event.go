package model

import (
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
)

type EventID string

// NewEventID derives a stable ID from the collector name and the event title.
// A scraper-native ID takes precedence when present; a random UUID is the
// last resort for untitled records so the catalog key stays unique.
func NewEventID(source, nativeID, title string) EventID {
	if nativeID != "" {
		return EventID(nativeID)
	}
	if slug := Slugify(title); slug != "" {
		return EventID(source + "-" + slug)
	}
	return EventID(source + "-" + uuid.New().String())
}

// Slugify lowercases a title and collapses every non-alphanumeric run into a
// single hyphen.
func Slugify(s string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Event is the canonical, source-independent representation of a listing.
// StartDate is always resolved to a concrete year; Time and Price are kept
// as display strings and never parsed further.
type Event struct {
	ID          EventID    `firestore:"id" json:"id"`
	Title       string     `firestore:"title" json:"title"`
	Description string     `firestore:"description" json:"description"`
	StartDate   time.Time  `firestore:"startDate" json:"startDate"`
	EndDate     *time.Time `firestore:"endDate,omitempty" json:"endDate,omitempty"`
	Time        string     `firestore:"time" json:"time"`
	Price       string     `firestore:"price" json:"price"`
	Category    string     `firestore:"category" json:"category"`
	Venue       string     `firestore:"venue" json:"venue"`
	Organizer   string     `firestore:"organizer" json:"organizer"`
	Image       string     `firestore:"image" json:"image"`
	Link        string     `firestore:"link" json:"link"`
	Source      string     `firestore:"source" json:"source"`
	DateDisplay string     `firestore:"dateDisplay,omitempty" json:"dateDisplay,omitempty"`
}

// Day returns the calendar day of the event start, the grain at which
// cross-source duplicates are compared.
func (e *Event) Day() string {
	return e.StartDate.Format("2006-01-02")
}

// EmbeddingRecord holds one embedding per indexed event. EventID is a weak
// reference: the referenced event may have been dropped since indexing, in
// which case the record is skipped at search time.
type EmbeddingRecord struct {
	EventID   EventID            `firestore:"eventId"`
	Vector    firestore.Vector32 `firestore:"vector"`
	Model     string             `firestore:"model"`
	CreatedAt time.Time          `firestore:"createdAt"`
}

// CatalogStats reports catalog counts. Total counts every stored record,
// Unique counts the deduplicated view.
type CatalogStats struct {
	Total      int        `json:"total"`
	Unique     int        `json:"unique"`
	Sources    []string   `json:"sources"`
	LastIngest *time.Time `json:"lastIngest,omitempty"`
}
