package rag

import (
	"context"
	"strings"
	"time"

	"github.com/m-hamwi/yalla/pkg/adapter"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/utils/logging"
)

// IndexNew embeds and stores every event not already present in the vector
// store. Idempotent and incremental: indexed events are never re-embedded.
// A single embedding failure skips that event and continues. Returns the
// number of newly indexed events.
func (p *Pipeline) IndexNew(ctx context.Context, events []model.Event) (int, error) {
	p.setState(stateIndexing)
	defer func() {
		if p.store.Size() > 0 {
			p.setState(stateReady)
		} else {
			p.setState(stateNotIndexed)
		}
	}()

	logger := logging.From(ctx)

	indexed := 0
	for _, ev := range events {
		if p.store.Has(ev.ID) {
			continue
		}

		resp, err := p.gemini.Embedding(ctx, Document(ev))
		if err != nil {
			logger.Warn("embedding failed, skipping event", "eventId", ev.ID, "error", err)
			continue
		}
		vector, err := adapter.EmbeddingVector(resp)
		if err != nil {
			logger.Warn("unusable embedding response, skipping event", "eventId", ev.ID, "error", err)
			continue
		}

		p.store.Upsert(ctx, ev.ID, vector)
		indexed++

		if p.throttle > 0 {
			select {
			case <-ctx.Done():
				return indexed, ctx.Err()
			case <-time.After(p.throttle):
			}
		}
	}

	if indexed > 0 {
		if err := p.store.Refresh(ctx); err != nil {
			logger.Warn("vector cache refresh failed after indexing", "error", err)
		}
	}

	return indexed, nil
}

// Document builds the text that gets embedded for an event: title,
// description, category, venue, a human-readable date, and price, skipping
// whatever the source left empty.
func Document(ev model.Event) string {
	parts := make([]string, 0, 6)
	add := func(label, value string) {
		if value != "" {
			if label != "" {
				value = label + ": " + value
			}
			parts = append(parts, value)
		}
	}

	add("", ev.Title)
	add("", ev.Description)
	add("Category", ev.Category)
	add("Venue", ev.Venue)
	add("Date", humanDate(ev))
	add("Price", ev.Price)

	return strings.Join(parts, "\n")
}

func humanDate(ev model.Event) string {
	if ev.DateDisplay != "" {
		return ev.DateDisplay
	}
	if ev.StartDate.IsZero() {
		return ""
	}
	return ev.StartDate.Format("Monday, January 2, 2006")
}
