package catalog_test

import (
	"testing"
	"time"

	"github.com/m-hamwi/yalla/pkg/catalog"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-mizutani/gt"
)

func mkEvent(id, title, source string, day time.Time) model.Event {
	return model.Event{
		ID:        model.EventID(id),
		Title:     title,
		Source:    source,
		StartDate: day,
	}
}

var day1 = time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)
var day2 = time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Jazz Night!", "jazz night"},
		{"ART   FAIR", "art fair"},
		{"Yoga at the Park", "yoga park"},
		{"Food & Drink Festival, 2025", "food drink festival 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gt.V(t, catalog.NormalizeTitle(tt.in)).Equal(tt.want)
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Run("identical", func(t *testing.T) {
		gt.V(t, catalog.Similarity("jazz night", "jazz night")).Equal(1.0)
	})

	t.Run("substring", func(t *testing.T) {
		gt.V(t, catalog.Similarity("doha food festival", "doha food festival 2025")).Equal(1.0)
	})

	t.Run("disjoint", func(t *testing.T) {
		gt.V(t, catalog.Similarity("jazz night", "yoga class")).Equal(0.0)
	})

	t.Run("high overlap", func(t *testing.T) {
		score := catalog.Similarity("doha international book fair", "book fair doha international")
		gt.N(t, score).Greater(0.8)
	})

	t.Run("low overlap", func(t *testing.T) {
		score := catalog.Similarity("doha winter food market", "winter food market doha special")
		gt.N(t, score).Less(0.8)
	})

	t.Run("empty", func(t *testing.T) {
		gt.V(t, catalog.Similarity("", "anything")).Equal(0.0)
	})
}

func TestDedupeIdenticalTitlesSameDay(t *testing.T) {
	events := []model.Event{
		mkEvent("x-art-fair", "Art Fair", "x", day1),
		mkEvent("y-art-fair", "ART FAIR", "y", day1),
	}

	got := catalog.Dedupe(events)
	gt.A(t, got).Length(1)
	gt.V(t, got[0].Source).Equal("x")

	// First occurrence wins regardless of insertion order.
	got = catalog.Dedupe([]model.Event{events[1], events[0]})
	gt.A(t, got).Length(1)
	gt.V(t, got[0].Source).Equal("y")
}

func TestDedupeSubstringRule(t *testing.T) {
	events := []model.Event{
		mkEvent("x-1", "Doha Food Festival 2025", "x", day1),
		mkEvent("y-1", "Doha Food Festival", "y", day1),
	}
	gt.A(t, catalog.Dedupe(events)).Length(1)
}

func TestDedupeDistinctTitlesSameDay(t *testing.T) {
	events := []model.Event{
		mkEvent("x-1", "Jazz Night", "x", day1),
		mkEvent("y-1", "Yoga Class", "y", day1),
	}
	gt.A(t, catalog.Dedupe(events)).Length(2)
}

func TestDedupeSameTitleDifferentDays(t *testing.T) {
	events := []model.Event{
		mkEvent("x-1", "Jazz Night", "x", day1),
		mkEvent("x-2", "Jazz Night", "x", day2),
	}
	gt.A(t, catalog.Dedupe(events)).Length(2)
}

func TestDedupeIdempotent(t *testing.T) {
	events := []model.Event{
		mkEvent("x-1", "Art Fair", "x", day1),
		mkEvent("y-1", "Art Fair Doha", "y", day1),
		mkEvent("x-2", "Jazz Night", "x", day1),
		mkEvent("y-2", "Yoga Class", "y", day2),
	}

	once := catalog.Dedupe(events)
	twice := catalog.Dedupe(once)

	gt.A(t, twice).Length(len(once))
	for i := range once {
		gt.V(t, twice[i].ID).Equal(once[i].ID)
	}
}

func TestDedupePreservesInputOrder(t *testing.T) {
	events := []model.Event{
		mkEvent("a", "Yoga Class", "x", day2),
		mkEvent("b", "Jazz Night", "x", day1),
		mkEvent("c", "Art Fair", "y", day1),
	}

	got := catalog.Dedupe(events)
	gt.A(t, got).Length(3)
	gt.V(t, got[0].ID).Equal(model.EventID("a"))
	gt.V(t, got[1].ID).Equal(model.EventID("b"))
	gt.V(t, got[2].ID).Equal(model.EventID("c"))
}
