package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"memberdocs/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberRows(m *model.Member) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "custom_id", "name", "email", "address", "phone",
		"pan_number", "citizenship_number", "nid_number", "created_at", "updated_at",
	}).AddRow(
		m.ID, nullString(m.CustomID), nullString(m.Name), nullString(m.Email),
		nullString(m.Address), nullString(m.Phone), nullString(m.PANNumber),
		nullString(m.CitizenshipNumber), nullString(m.NIDNumber), m.CreatedAt, m.UpdatedAt,
	)
}

func strp(s string) *string { return &s }

func TestMemberStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	m := &model.Member{Name: strp("Asha"), Email: strp("a@x.com"), CreatedAt: now, UpdatedAt: now}
	stored := *m
	stored.ID = 1

	mock.ExpectQuery("INSERT INTO members").
		WillReturnRows(memberRows(&stored))

	got, err := repo.Create(ctx, m)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Asha", *got.Name)
	assert.Nil(t, got.Phone, "unspecified optional fields stay null")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberStore_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberStore(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		m := &model.Member{ID: 7, Name: strp("Asha"), CreatedAt: time.Now(), UpdatedAt: time.Now()}
		mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
			WithArgs(int64(7)).
			WillReturnRows(memberRows(m))

		got, err := repo.FindByID(ctx, 7)

		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM members WHERE id =").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, 99)

		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, got)
	})
}

func TestMemberStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberStore(db)
	ctx := context.Background()

	now := time.Now()
	rows := memberRows(&model.Member{ID: 2, Name: strp("newer"), CreatedAt: now, UpdatedAt: now})
	rows.AddRow(int64(1), nil, "older", nil, nil, nil, nil, nil, nil, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM members ORDER BY created_at DESC").
		WillReturnRows(rows)

	members, err := repo.List(ctx)

	assert.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, int64(2), members[0].ID)
	assert.Equal(t, int64(1), members[1].ID)
}

func TestMemberStore_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberStore(db)
	ctx := context.Background()

	now := time.Now()
	m := &model.Member{ID: 3, Name: strp("renamed"), CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("UPDATE members").
		WillReturnRows(memberRows(m))

	got, err := repo.Update(ctx, m)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "renamed", *got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMemberStore(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM members WHERE id =").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(ctx, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
