package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const (
	eventCollection     = "events"
	embeddingCollection = "embeddings"

	// Firestore caps a single BatchWrite at 500 operations.
	maxBatchSize = 500
)

type firestoreRepo struct {
	client *firestore.Client
}

func newFirestore(ctx context.Context, projectID, databaseID string) (*firestoreRepo, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID), goerr.V("database", databaseID))
	}
	return &firestoreRepo{client: client}, nil
}

func (r *firestoreRepo) PutEvents(ctx context.Context, events []*model.Event) error {
	for start := 0; start < len(events); start += maxBatchSize {
		end := min(start+maxBatchSize, len(events))

		bw := r.client.BulkWriter(ctx)
		for _, ev := range events[start:end] {
			doc := r.client.Collection(eventCollection).Doc(string(ev.ID))
			if _, err := bw.Set(doc, ev); err != nil {
				bw.End()
				return goerr.Wrap(err, "failed to queue event write", goerr.V("id", ev.ID))
			}
		}
		bw.End()
	}
	return nil
}

func (r *firestoreRepo) ListEvents(ctx context.Context) ([]*model.Event, error) {
	query := r.client.Collection(eventCollection).OrderBy("startDate", firestore.Asc)
	return collectEvents(query.Documents(ctx))
}

func (r *firestoreRepo) ListEventsByRange(ctx context.Context, start, end time.Time) ([]*model.Event, error) {
	query := r.client.Collection(eventCollection).
		Where("startDate", ">=", start).
		Where("startDate", "<", end).
		OrderBy("startDate", firestore.Asc)
	return collectEvents(query.Documents(ctx))
}

func (r *firestoreRepo) ListEventsByCategory(ctx context.Context, category string) ([]*model.Event, error) {
	query := r.client.Collection(eventCollection).
		Where("category", "==", category).
		OrderBy("startDate", firestore.Asc)
	return collectEvents(query.Documents(ctx))
}

func (r *firestoreRepo) CountEvents(ctx context.Context) (int, error) {
	return r.countCollection(ctx, eventCollection)
}

func (r *firestoreRepo) DeleteAllEvents(ctx context.Context) error {
	return r.deleteCollection(ctx, eventCollection)
}

func (r *firestoreRepo) PutEmbedding(ctx context.Context, rec *model.EmbeddingRecord) error {
	doc := r.client.Collection(embeddingCollection).Doc(string(rec.EventID))
	if _, err := doc.Set(ctx, rec); err != nil {
		return goerr.Wrap(err, "failed to put embedding", goerr.V("eventId", rec.EventID))
	}
	return nil
}

func (r *firestoreRepo) ListEmbeddings(ctx context.Context) ([]*model.EmbeddingRecord, error) {
	iter := r.client.Collection(embeddingCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var recs []*model.EmbeddingRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate embeddings")
		}

		var rec model.EmbeddingRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, goerr.Wrap(err, "failed to decode embedding", goerr.V("doc", doc.Ref.ID))
		}
		recs = append(recs, &rec)
	}
	return recs, nil
}

func (r *firestoreRepo) CountEmbeddings(ctx context.Context) (int, error) {
	return r.countCollection(ctx, embeddingCollection)
}

func (r *firestoreRepo) DeleteAllEmbeddings(ctx context.Context) error {
	return r.deleteCollection(ctx, embeddingCollection)
}

func (r *firestoreRepo) countCollection(ctx context.Context, name string) (int, error) {
	result, err := r.client.Collection(name).NewAggregationQuery().WithCount("n").Get(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count collection", goerr.V("collection", name))
	}

	v, ok := result["n"].(*firestorepb.Value)
	if !ok {
		return 0, goerr.New("unexpected count result", goerr.V("collection", name))
	}
	return int(v.GetIntegerValue()), nil
}

func (r *firestoreRepo) deleteCollection(ctx context.Context, name string) error {
	iter := r.client.Collection(name).Select().Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	n := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to iterate collection", goerr.V("collection", name))
		}

		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to queue delete", goerr.V("collection", name))
		}
		n++
		if n%maxBatchSize == 0 {
			bw.Flush()
		}
	}
	bw.End()
	return nil
}

func collectEvents(iter *firestore.DocumentIterator) ([]*model.Event, error) {
	defer iter.Stop()

	var events []*model.Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate events")
		}

		var ev model.Event
		if err := doc.DataTo(&ev); err != nil {
			return nil, goerr.Wrap(err, "failed to decode event", goerr.V("doc", doc.Ref.ID))
		}
		events = append(events, &ev)
	}
	return events, nil
}
