package repository

import (
	"context"

	"visadocs/internal/model"
)

// DocumentRepository defines persistence for visa documents using SQL queries
// only. No authorization or validation logic lives here; not-found and
// ownership semantics belong to the service layer.
type DocumentRepository interface {
	// Create inserts a new document record. The caller provides all fields,
	// including ID and CreatedAt. The insert is atomic: the record is fully
	// written or not at all. Returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByOwner returns every document owned by userID, newest first.
	// Grouping by category is a service concern.
	ListByOwner(ctx context.Context, userID string) ([]model.Document, error)

	// Delete removes a document by ID. Deleting a nonexistent ID is a no-op,
	// not an error.
	Delete(ctx context.Context, id string) error
}
