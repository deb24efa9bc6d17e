package repository

import (
	"context"

	"memberdocs/internal/model"
)

// DocumentRepository defines data access for document records using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document row. The database assigns the ID.
	Create(ctx context.Context, d *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// ListByMember returns every document owned by the member, most recent first.
	ListByMember(ctx context.Context, memberID int64) ([]model.Document, error)

	// ListAll returns every document row, most recent first.
	ListAll(ctx context.Context) ([]model.Document, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteByMember removes all documents owned by the member in one statement.
	DeleteByMember(ctx context.Context, memberID int64) error
}
