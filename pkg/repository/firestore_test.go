package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-hamwi/yalla/pkg/interfaces"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-hamwi/yalla/pkg/repository"
	"github.com/m-mizutani/gt"
)

func setupFirestore(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		gt.NoError(t, repo.DeleteAllEvents(ctx))
		gt.NoError(t, repo.DeleteAllEmbeddings(ctx))
	})

	return repo
}

func TestFirestoreEventRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	events := []*model.Event{
		{
			ID:        "test-jazz-night",
			Title:     "Jazz Night",
			StartDate: time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
			Category:  "Music",
			Venue:     "Katara",
			Price:     "QR 100",
			Source:    "test",
		},
		{
			ID:        "test-art-fair",
			Title:     "Art Fair",
			StartDate: time.Date(2025, 9, 18, 0, 0, 0, 0, time.UTC),
			Category:  "Arts",
			Source:    "test",
		},
	}
	gt.NoError(t, repo.PutEvents(ctx, events))

	got, err := repo.ListEvents(ctx)
	gt.NoError(t, err)
	gt.A(t, got).Length(2)
	gt.V(t, got[0].ID).Equal(model.EventID("test-art-fair"))
	gt.V(t, got[1].ID).Equal(model.EventID("test-jazz-night"))
	gt.V(t, got[1].Venue).Equal("Katara")

	n, err := repo.CountEvents(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(2)
}

func TestFirestoreEventQueries(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	gt.NoError(t, repo.PutEvents(ctx, []*model.Event{
		{ID: "test-a", Title: "A", StartDate: time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), Category: "Music"},
		{ID: "test-b", Title: "B", StartDate: time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC), Category: "Arts"},
	}))

	inRange, err := repo.ListEventsByRange(ctx,
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC))
	gt.NoError(t, err)
	gt.A(t, inRange).Length(1)
	gt.V(t, inRange[0].ID).Equal(model.EventID("test-a"))

	byCategory, err := repo.ListEventsByCategory(ctx, "Arts")
	gt.NoError(t, err)
	gt.A(t, byCategory).Length(1)
	gt.V(t, byCategory[0].ID).Equal(model.EventID("test-b"))
}

func TestFirestoreEmbeddingRoundTrip(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	rec := &model.EmbeddingRecord{
		EventID:   "test-jazz-night",
		Vector:    firestore.Vector32{0.1, 0.2, 0.3},
		Model:     "gemini-embedding-001",
		CreatedAt: time.Now().UTC(),
	}
	gt.NoError(t, repo.PutEmbedding(ctx, rec))

	recs, err := repo.ListEmbeddings(ctx)
	gt.NoError(t, err)
	gt.A(t, recs).Length(1)
	gt.V(t, recs[0].EventID).Equal(rec.EventID)
	gt.A(t, []float32(recs[0].Vector)).Length(3)

	n, err := repo.CountEmbeddings(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(1)

	gt.NoError(t, repo.DeleteAllEmbeddings(ctx))
	n, err = repo.CountEmbeddings(ctx)
	gt.NoError(t, err)
	gt.V(t, n).Equal(0)
}
