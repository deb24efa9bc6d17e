package repository

import (
	"context"

	"memberdocs/internal/model"
)

// MemberRepository defines data access for member records using SQL queries only.
// No business logic here — strictly persistence operations.
type MemberRepository interface {
	// Create inserts a new member row. The database assigns the ID.
	// Returns the stored member (including values set by the DB).
	Create(ctx context.Context, m *model.Member) (*model.Member, error)

	// FindByID returns a member by its ID.
	FindByID(ctx context.Context, id int64) (*model.Member, error)

	// List returns all members ordered by creation time, most recent first.
	List(ctx context.Context) ([]model.Member, error)

	// Update overwrites all attribute columns of the given member row.
	Update(ctx context.Context, m *model.Member) (*model.Member, error)

	// Delete removes a member by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error
}
