package sqlstore

import (
	"context"
	"database/sql"

	"memberdocs/internal/model"
	"memberdocs/internal/repository"
)

// MemberStore is a database/sql implementation of repository.MemberRepository.
// It uses parameterized queries and contains no business logic.
type MemberStore struct {
	db *sql.DB
}

// NewMemberStore creates a new MemberStore repository.
func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

var _ repository.MemberRepository = (*MemberStore)(nil)

const memberColumns = `id, custom_id, name, email, address, phone, pan_number, citizenship_number, nid_number, created_at, updated_at`

// Create inserts a new member row and returns the stored record.
func (r *MemberStore) Create(ctx context.Context, m *model.Member) (*model.Member, error) {
	const q = `
		INSERT INTO members (custom_id, name, email, address, phone, pan_number, citizenship_number, nid_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + memberColumns
	row := r.db.QueryRowContext(ctx, q,
		nullString(m.CustomID),
		nullString(m.Name),
		nullString(m.Email),
		nullString(m.Address),
		nullString(m.Phone),
		nullString(m.PANNumber),
		nullString(m.CitizenshipNumber),
		nullString(m.NIDNumber),
		m.CreatedAt,
		m.UpdatedAt,
	)
	return scanMember(row)
}

// FindByID fetches a single member by its ID.
func (r *MemberStore) FindByID(ctx context.Context, id int64) (*model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRowContext(ctx, q, id))
}

// List returns all members, newest first.
func (r *MemberStore) List(ctx context.Context) ([]model.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// Update overwrites all attribute columns and returns the stored record.
func (r *MemberStore) Update(ctx context.Context, m *model.Member) (*model.Member, error) {
	const q = `
		UPDATE members
		SET custom_id = $1, name = $2, email = $3, address = $4, phone = $5,
		    pan_number = $6, citizenship_number = $7, nid_number = $8, updated_at = $9
		WHERE id = $10
		RETURNING ` + memberColumns
	row := r.db.QueryRowContext(ctx, q,
		nullString(m.CustomID),
		nullString(m.Name),
		nullString(m.Email),
		nullString(m.Address),
		nullString(m.Phone),
		nullString(m.PANNumber),
		nullString(m.CitizenshipNumber),
		nullString(m.NIDNumber),
		m.UpdatedAt,
		m.ID,
	)
	return scanMember(row)
}

// Delete removes a member by ID. It does not return an error if the row does not exist.
func (r *MemberStore) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM members WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*model.Member, error) {
	var (
		m                                                            model.Member
		customID, name, email, address, phone, pan, citizenship, nid sql.NullString
	)
	if err := row.Scan(
		&m.ID,
		&customID,
		&name,
		&email,
		&address,
		&phone,
		&pan,
		&citizenship,
		&nid,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	m.CustomID = stringPtr(customID)
	m.Name = stringPtr(name)
	m.Email = stringPtr(email)
	m.Address = stringPtr(address)
	m.Phone = stringPtr(phone)
	m.PANNumber = stringPtr(pan)
	m.CitizenshipNumber = stringPtr(citizenship)
	m.NIDNumber = stringPtr(nid)
	return &m, nil
}
