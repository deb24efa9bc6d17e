package repository

import (
	"context"

	"memberdocs/internal/model"
)

// AdminRepository defines data access for administrative accounts.
// Hashing happens in the service layer; repositories store hashes verbatim.
type AdminRepository interface {
	// Create inserts a new admin row. The database assigns the ID.
	Create(ctx context.Context, a *model.Admin) (*model.Admin, error)

	// Count returns the number of admin accounts.
	Count(ctx context.Context) (int, error)

	// FindByID returns an admin by its ID.
	FindByID(ctx context.Context, id int64) (*model.Admin, error)

	// FindByUsername returns an admin by its unique username.
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)

	// List returns all admin accounts ordered by creation time, most recent first.
	List(ctx context.Context) ([]model.Admin, error)

	// Update overwrites the mutable columns of the given admin row.
	Update(ctx context.Context, a *model.Admin) (*model.Admin, error)
}
