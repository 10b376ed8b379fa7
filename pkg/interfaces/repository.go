package interfaces

import (
	"context"
	"time"

	"github.com/m-hamwi/yalla/pkg/model"
)

// Repository is the optional persistence delegate for the catalog and the
// vector store. The core must run unchanged when no Repository is configured
// (memory-only mode), so nothing above this interface may assume durability.
type Repository interface {
	// PutEvents bulk-upserts canonical events, keyed by event ID
	PutEvents(ctx context.Context, events []*model.Event) error

	// ListEvents returns all stored events ordered by start date ascending
	ListEvents(ctx context.Context) ([]*model.Event, error)

	// ListEventsByRange returns events with start date in [start, end)
	ListEventsByRange(ctx context.Context, start, end time.Time) ([]*model.Event, error)

	// ListEventsByCategory returns events with the given category
	ListEventsByCategory(ctx context.Context, category string) ([]*model.Event, error)

	// CountEvents returns the number of stored events
	CountEvents(ctx context.Context) (int, error)

	// DeleteAllEvents removes every stored event
	DeleteAllEvents(ctx context.Context) error

	// PutEmbedding upserts one embedding record, keyed by event ID
	PutEmbedding(ctx context.Context, rec *model.EmbeddingRecord) error

	// ListEmbeddings returns all stored embedding records
	ListEmbeddings(ctx context.Context) ([]*model.EmbeddingRecord, error)

	// CountEmbeddings returns the number of stored embedding records
	CountEmbeddings(ctx context.Context) (int, error)

	// DeleteAllEmbeddings removes every stored embedding record
	DeleteAllEmbeddings(ctx context.Context) error
}
