package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-hamwi/yalla/pkg/model"
)

// Memory is the in-memory repository used in memory-only mode and in tests.
type Memory struct {
	mu         sync.RWMutex
	events     map[model.EventID]*model.Event
	embeddings map[model.EventID]*model.EmbeddingRecord
	embedOrder []model.EventID
}

func NewMemory() *Memory {
	return &Memory{
		events:     make(map[model.EventID]*model.Event),
		embeddings: make(map[model.EventID]*model.EmbeddingRecord),
	}
}

func (m *Memory) PutEvents(ctx context.Context, events []*model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range events {
		cp := *ev
		m.events[ev.ID] = &cp
	}
	return nil
}

func (m *Memory) ListEvents(ctx context.Context) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(*model.Event) bool { return true }), nil
}

func (m *Memory) ListEventsByRange(ctx context.Context, start, end time.Time) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(ev *model.Event) bool {
		return !ev.StartDate.Before(start) && ev.StartDate.Before(end)
	}), nil
}

func (m *Memory) ListEventsByCategory(ctx context.Context, category string) ([]*model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLocked(func(ev *model.Event) bool { return ev.Category == category }), nil
}

func (m *Memory) CountEvents(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events), nil
}

func (m *Memory) DeleteAllEvents(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[model.EventID]*model.Event)
	return nil
}

func (m *Memory) PutEmbedding(ctx context.Context, rec *model.EmbeddingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.embeddings[rec.EventID]; !ok {
		m.embedOrder = append(m.embedOrder, rec.EventID)
	}
	cp := *rec
	m.embeddings[rec.EventID] = &cp
	return nil
}

func (m *Memory) ListEmbeddings(ctx context.Context) ([]*model.EmbeddingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]*model.EmbeddingRecord, 0, len(m.embeddings))
	for _, id := range m.embedOrder {
		if rec, ok := m.embeddings[id]; ok {
			cp := *rec
			recs = append(recs, &cp)
		}
	}
	return recs, nil
}

func (m *Memory) CountEmbeddings(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.embeddings), nil
}

func (m *Memory) DeleteAllEmbeddings(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddings = make(map[model.EventID]*model.EmbeddingRecord)
	m.embedOrder = nil
	return nil
}

func (m *Memory) listLocked(keep func(*model.Event) bool) []*model.Event {
	var events []*model.Event
	for _, ev := range m.events {
		if keep(ev) {
			cp := *ev
			events = append(events, &cp)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events
}
