package sqlstore

import (
	"context"
	"database/sql"

	"memberdocs/internal/model"
	"memberdocs/internal/repository"
)

// DocumentStore is a database/sql implementation of repository.DocumentRepository.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore repository.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

const documentColumns = `id, member_id, title, file_path, doc_type, created_at, updated_at`

// Create inserts a new document row and returns the stored record.
func (r *DocumentStore) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (member_id, title, file_path, doc_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		d.MemberID,
		d.Title,
		d.FilePath,
		string(d.DocType),
		d.CreatedAt,
		d.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentStore) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListByMember returns all documents owned by the member, newest first.
func (r *DocumentStore) ListByMember(ctx context.Context, memberID int64) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE member_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// ListAll returns every document row, newest first.
func (r *DocumentStore) ListAll(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentStore) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// DeleteByMember removes all of the member's documents in one statement.
func (r *DocumentStore) DeleteByMember(ctx context.Context, memberID int64) error {
	const q = `DELETE FROM documents WHERE member_id = $1`
	_, err := r.db.ExecContext(ctx, q, memberID)
	return err
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d       model.Document
		docType string
	)
	if err := row.Scan(
		&d.ID,
		&d.MemberID,
		&d.Title,
		&d.FilePath,
		&docType,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	d.DocType = model.DocType(docType)
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
