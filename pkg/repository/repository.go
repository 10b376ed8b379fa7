// Package repository provides the persistence delegate implementations:
// Firestore for durable mode and an in-memory store for memory-only mode
// and tests. Both satisfy interfaces.Repository.
package repository

import (
	"context"

	"github.com/m-hamwi/yalla/pkg/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// New creates the Firestore-backed repository.
func New(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	if projectID == "" {
		return nil, goerr.New("project ID is required")
	}
	if databaseID == "" {
		databaseID = "(default)"
	}
	return newFirestore(ctx, projectID, databaseID)
}
