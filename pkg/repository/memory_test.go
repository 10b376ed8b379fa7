package repository_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/repository"
	"github.com/m-mizutani/gt"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryPutAndListEvents(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	events := []*model.Event{
		{ID: "b", Title: "Later", StartDate: day(time.June, 10), Category: "Music"},
		{ID: "a", Title: "Sooner", StartDate: day(time.May, 5), Category: "Arts"},
	}
	gt.NoError(t, repo.PutEvents(ctx, events))

	got, err := repo.ListEvents(ctx)
	gt.NoError(t, err)
	gt.A(t, got).Length(2)
	gt.V(t, got[0].Title).Equal("Sooner")
	gt.V(t, got[1].Title).Equal("Later")
}

func TestMemoryPutEventsUpsertsByID(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
		{ID: "a", Title: "Jazz Night", StartDate: day(time.May, 5)},
	}))
	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
		{ID: "a", Title: "Jazz Night", StartDate: day(time.May, 5), Price: "QR 100"},
	}))

	got, err := repo.ListEvents(ctx)
	gt.NoError(t, err)
	gt.A(t, got).Length(1)
	gt.V(t, got[0].Price).Equal("QR 100")
}

func TestMemoryListEventsByRange(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
		{ID: "a", Title: "In", StartDate: day(time.May, 5)},
		{ID: "b", Title: "Boundary", StartDate: day(time.June, 1)},
		{ID: "c", Title: "Out", StartDate: day(time.June, 10)},
	}))

	got, err := repo.ListEventsByRange(ctx, day(time.May, 1), day(time.June, 1))
	gt.NoError(t, err)
	gt.A(t, got).Length(1)
	gt.V(t, got[0].Title).Equal("In")
}

func TestMemoryListEventsByCategory(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
		{ID: "a", Title: "Jazz Night", StartDate: day(time.May, 5), Category: "Music"},
		{ID: "b", Title: "Art Fair", StartDate: day(time.May, 6), Category: "Arts"},
	}))

	got, err := repo.ListEventsByCategory(ctx, "Music")
	gt.NoError(t, err)
	gt.A(t, got).Length(1)
	gt.V(t, got[0].Title).Equal("Jazz Night")
}

func TestMemoryDeleteAllEvents(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
		{ID: "a", Title: "Jazz Night", StartDate: day(time.May, 5)},
	}))
	gt.NoError(t, repo.DeleteAllEvents(ctx))

	n, err := repo.CountEvents(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(0)
}

func TestMemoryEmbeddingsKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	for _, id := range []model.EventID{"c", "a", "b"} {
		gt.NoError(t, repo.PutEmbedding(ctx, &model.EmbeddingRecord{
			EventID:   id,
			Vector:    firestore.Vector32{1, 0},
			Model:     "test-embedding",
			CreatedAt: time.Now(),
		}))
	}

	recs, err := repo.ListEmbeddings(ctx)
	gt.NoError(t, err)
	gt.A(t, recs).Length(3)
	gt.V(t, recs[0].EventID).Equal(model.EventID("c"))
	gt.V(t, recs[1].EventID).Equal(model.EventID("a"))
	gt.V(t, recs[2].EventID).Equal(model.EventID("b"))
}

func TestMemoryPutEmbeddingUpserts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutEmbedding(ctx, &model.EmbeddingRecord{
		EventID: "a", Vector: firestore.Vector32{1, 0},
	}))
	gt.NoError(t, repo.PutEmbedding(ctx, &model.EmbeddingRecord{
		EventID: "a", Vector: firestore.Vector32{0, 1},
	}))

	n, err := repo.CountEmbeddings(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(1)

	recs, err := repo.ListEmbeddings(ctx)
	gt.NoError(t, err)
	gt.V(t, []float32(recs[0].Vector)).Equal([]float32{0, 1})
}

func TestMemoryDeleteAllEmbeddings(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	gt.NoError(t, repo.PutEmbedding(ctx, &model.EmbeddingRecord{
		EventID: "a", Vector: firestore.Vector32{1, 0},
	}))
	gt.NoError(t, repo.DeleteAllEmbeddings(ctx))

	n, err := repo.CountEmbeddings(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(0)

	recs, err := repo.ListEmbeddings(ctx)
	gt.NoError(t, err)
	gt.A(t, recs).Length(0)
}

func TestMemoryCopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	ev := &model.Event{ID: "a", Title: "Jazz Night", StartDate: day(time.May, 5)}
	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{ev}))

	// Mutating the caller's copy after the write must not leak in.
	ev.Title = "changed"
	got, err := repo.ListEvents(ctx)
	gt.NoError(t, err)
	gt.V(t, got[0].Title).Equal("Jazz Night")

	// Mutating a listed copy must not leak back either.
	got[0].Title = "changed again"
	got, err = repo.ListEvents(ctx)
	gt.NoError(t, err)
	gt.V(t, got[0].Title).Equal("Jazz Night")
}
