package sqlstore

import (
	"context"
	"database/sql"

	"memberdocs/internal/model"
	"memberdocs/internal/repository"
)

// AdminStore is a database/sql implementation of repository.AdminRepository.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore repository.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

var _ repository.AdminRepository = (*AdminStore)(nil)

const adminColumns = `id, username, password_hash, security_question, security_answer_hash, created_at, updated_at`

// Create inserts a new admin row and returns the stored record.
func (r *AdminStore) Create(ctx context.Context, a *model.Admin) (*model.Admin, error) {
	const q = `
		INSERT INTO admin_settings (username, password_hash, security_question, security_answer_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + adminColumns
	row := r.db.QueryRowContext(ctx, q,
		a.Username,
		a.PasswordHash,
		nullString(a.SecurityQuestion),
		nullBytes(a.SecurityAnswer),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return scanAdmin(row)
}

// Count returns the number of admin accounts.
func (r *AdminStore) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM admin_settings`
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FindByID fetches a single admin by its ID.
func (r *AdminStore) FindByID(ctx context.Context, id int64) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admin_settings WHERE id = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, q, id))
}

// FindByUsername fetches a single admin by its unique username.
func (r *AdminStore) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admin_settings WHERE username = $1`
	return scanAdmin(r.db.QueryRowContext(ctx, q, username))
}

// List returns all admin accounts, newest first.
func (r *AdminStore) List(ctx context.Context) ([]model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admin_settings ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]model.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return admins, nil
}

// Update overwrites the mutable columns and returns the stored record.
func (r *AdminStore) Update(ctx context.Context, a *model.Admin) (*model.Admin, error) {
	const q = `
		UPDATE admin_settings
		SET password_hash = $1, security_question = $2, security_answer_hash = $3, updated_at = $4
		WHERE id = $5
		RETURNING ` + adminColumns
	row := r.db.QueryRowContext(ctx, q,
		a.PasswordHash,
		nullString(a.SecurityQuestion),
		nullBytes(a.SecurityAnswer),
		a.UpdatedAt,
		a.ID,
	)
	return scanAdmin(row)
}

func nullBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}

func scanAdmin(row rowScanner) (*model.Admin, error) {
	var (
		a        model.Admin
		question sql.NullString
	)
	if err := row.Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&question,
		&a.SecurityAnswer,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.SecurityQuestion = stringPtr(question)
	return &a, nil
}
