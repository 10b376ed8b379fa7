// Package catalog owns the canonical event set: normalization of raw
// scraper records, cross-source deduplication, and the range/category
// query surface.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-hamwi/yalla/pkg/interfaces"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/utils/logging"
)

// Catalog is the authoritative event set. Storage is additive across
// ingest calls until Clear. Deduplication is re-applied on every query so
// both total and unique counts stay observable.
type Catalog struct {
	mu         sync.RWMutex
	events     []model.Event
	index      map[model.EventID]int
	lastIngest *time.Time

	repo interfaces.Repository // nil = memory-only mode
	now  func() time.Time
}

type Option func(*Catalog)

// WithRepository enables write-through persistence. Persistence errors are
// logged and never fail an ingest; the in-memory set stays correct.
func WithRepository(repo interfaces.Repository) Option {
	return func(c *Catalog) {
		c.repo = repo
	}
}

// WithNow overrides the clock used for date resolution.
func WithNow(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

func New(opts ...Option) *Catalog {
	c := &Catalog{
		index: make(map[model.EventID]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load hydrates the catalog from the repository. No-op in memory-only mode.
func (c *Catalog) Load(ctx context.Context) error {
	if c.repo == nil {
		return nil
	}

	stored, err := c.repo.ListEvents(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.index = make(map[model.EventID]int, len(stored))
	for _, ev := range stored {
		c.index[ev.ID] = len(c.events)
		c.events = append(c.events, *ev)
	}
	return nil
}

// Ingest normalizes one scraper batch and merges it into the catalog.
// Re-ingesting a known event ID refreshes that record in place. Returns the
// number of records merged.
func (c *Catalog) Ingest(ctx context.Context, raws []model.RawEvent, source string) int {
	now := c.now()
	batch := NormalizeBatch(raws, source, now)

	c.mu.Lock()
	for _, ev := range batch {
		if i, ok := c.index[ev.ID]; ok {
			c.events[i] = ev
			continue
		}
		c.index[ev.ID] = len(c.events)
		c.events = append(c.events, ev)
	}
	c.lastIngest = &now
	c.mu.Unlock()

	if c.repo != nil && len(batch) > 0 {
		refs := make([]*model.Event, len(batch))
		for i := range batch {
			refs[i] = &batch[i]
		}
		if err := c.repo.PutEvents(ctx, refs); err != nil {
			logging.From(ctx).Warn("failed to persist event batch, keeping in-memory copy",
				"source", source, "count", len(batch), "error", err)
		}
	}

	return len(batch)
}

// All returns the deduplicated catalog, date ascending.
func (c *Catalog) All() []model.Event {
	c.mu.RLock()
	snapshot := make([]model.Event, len(c.events))
	copy(snapshot, c.events)
	c.mu.RUnlock()

	return sortByDate(Dedupe(snapshot))
}

// QueryRange returns deduplicated events with start date in [start, end).
// Dedup runs on the filtered subset so the result is self-consistent.
func (c *Catalog) QueryRange(start, end time.Time) []model.Event {
	c.mu.RLock()
	var filtered []model.Event
	for _, ev := range c.events {
		if !ev.StartDate.Before(start) && ev.StartDate.Before(end) {
			filtered = append(filtered, ev)
		}
	}
	c.mu.RUnlock()

	return sortByDate(Dedupe(filtered))
}

// QueryByCategory returns deduplicated events in the given category,
// matched case-insensitively.
func (c *Catalog) QueryByCategory(name string) []model.Event {
	c.mu.RLock()
	var filtered []model.Event
	for _, ev := range c.events {
		if strings.EqualFold(ev.Category, name) {
			filtered = append(filtered, ev)
		}
	}
	c.mu.RUnlock()

	return sortByDate(Dedupe(filtered))
}

// Categories returns the sorted set of distinct category names present.
func (c *Catalog) Categories() []string {
	set := make(map[string]struct{})
	for _, ev := range c.All() {
		set[ev.Category] = struct{}{}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats reports total stored records, the deduplicated count, the distinct
// sources, and the last ingest time.
func (c *Catalog) Stats() model.CatalogStats {
	c.mu.RLock()
	total := len(c.events)
	last := c.lastIngest
	sources := make(map[string]struct{})
	snapshot := make([]model.Event, len(c.events))
	copy(snapshot, c.events)
	c.mu.RUnlock()

	for _, ev := range snapshot {
		sources[ev.Source] = struct{}{}
	}
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	return model.CatalogStats{
		Total:      total,
		Unique:     len(Dedupe(snapshot)),
		Sources:    names,
		LastIngest: last,
	}
}

// Clear resets the catalog, including the persisted copy when configured.
func (c *Catalog) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.events = nil
	c.index = make(map[model.EventID]int)
	c.lastIngest = nil
	c.mu.Unlock()

	if c.repo != nil {
		if err := c.repo.DeleteAllEvents(ctx); err != nil {
			return err
		}
	}
	return nil
}

func sortByDate(events []model.Event) []model.Event {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events
}
