package adapter

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Archive stores raw scraper batches before normalization so a bad batch can
// be replayed after a parser fix. Loss of an archive write is never fatal to
// ingestion.
type Archive interface {
	// PutBatch writes a raw batch as JSON under a source/timestamp key.
	PutBatch(ctx context.Context, source string, at time.Time, batch any) error
	// Get loads an archived object for replay.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type archiveClient struct {
	bucketName string
	client     *storage.Client
}

// NewArchive creates a Cloud Storage backed Archive.
func NewArchive(ctx context.Context, bucketName string) (Archive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &archiveClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (a *archiveClient) PutBatch(ctx context.Context, source string, at time.Time, batch any) error {
	key := "raw/" + source + "/" + at.UTC().Format("2006-01-02T150405") + ".json"

	obj := a.client.Bucket(a.bucketName).Object(key)
	w := obj.NewWriter(ctx)
	w.ContentType = "application/json"

	if err := json.NewEncoder(w).Encode(batch); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode batch", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to write batch to storage", goerr.V("key", key))
	}
	return nil
}

func (a *archiveClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := a.client.Bucket(a.bucketName).Object(key).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read from storage", goerr.V("key", key))
	}
	return r, nil
}
