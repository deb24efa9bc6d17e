package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"memberdocs/internal/model"
	repoMocks "memberdocs/internal/repository/mocks"
	vaultMocks "memberdocs/internal/vault/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strp(s string) *string { return &s }

func TestMemberService_Create(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockMemberRepository)
	svc := NewMemberService(mRepo, nil)

	mRepo.On("Create", ctx, mock.MatchedBy(func(m *model.Member) bool {
		return m.Name != nil && *m.Name == "Ram" && m.Email == nil && !m.CreatedAt.IsZero()
	})).Return(&model.Member{ID: 1, Name: strp("Ram")}, nil)

	m, err := svc.Create(ctx, model.MemberAttrs{Name: strp("Ram")})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	mRepo.AssertExpectations(t)
}

func TestMemberService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		attrs      model.MemberAttrs
		setupMocks func(mRepo *repoMocks.MockMemberRepository)
		wantErr    error
		check      func(t *testing.T, m *model.Member)
	}{
		{
			name:  "happy path overwrites provided fields",
			attrs: model.MemberAttrs{Name: strp("Sita"), Phone: strp("9800000000")},
			setupMocks: func(mRepo *repoMocks.MockMemberRepository) {
				mRepo.On("FindByID", ctx, int64(1)).
					Return(&model.Member{ID: 1, Name: strp("Ram"), Email: strp("ram@example.com")}, nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(m *model.Member) bool {
					return *m.Name == "Sita" && *m.Phone == "9800000000" && *m.Email == "ram@example.com"
				})).Return(&model.Member{ID: 1, Name: strp("Sita")}, nil)
			},
		},
		{
			name:  "empty values leave stored fields untouched",
			attrs: model.MemberAttrs{Name: strp(""), Email: nil},
			setupMocks: func(mRepo *repoMocks.MockMemberRepository) {
				mRepo.On("FindByID", ctx, int64(1)).
					Return(&model.Member{ID: 1, Name: strp("Ram"), Email: strp("ram@example.com")}, nil)
				mRepo.On("Update", ctx, mock.MatchedBy(func(m *model.Member) bool {
					return *m.Name == "Ram" && *m.Email == "ram@example.com"
				})).Return(&model.Member{ID: 1, Name: strp("Ram")}, nil)
			},
		},
		{
			name:  "not found",
			attrs: model.MemberAttrs{Name: strp("Sita")},
			setupMocks: func(mRepo *repoMocks.MockMemberRepository) {
				mRepo.On("FindByID", ctx, int64(1)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrMemberNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockMemberRepository)
			svc := NewMemberService(mRepo, nil)

			tt.setupMocks(mRepo)

			m, err := svc.Update(ctx, 1, tt.attrs)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, m)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestMemberService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(mRepo *repoMocks.MockMemberRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			setupMocks: func(mRepo *repoMocks.MockMemberRepository) {
				mRepo.On("FindByID", ctx, int64(7)).Return(&model.Member{ID: 7}, nil)
			},
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			setupMocks: func(mRepo *repoMocks.MockMemberRepository) {
				mRepo.On("FindByID", ctx, int64(7)).Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrMemberNotFound,
		},
		{
			name: "generic repository error",
			setupMocks: func(mRepo *repoMocks.MockMemberRepository) {
				mRepo.On("FindByID", ctx, int64(7)).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockMemberRepository)
			svc := NewMemberService(mRepo, nil)

			tt.setupMocks(mRepo)

			m, err := svc.Get(ctx, 7)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrMemberNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, m)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(7), m.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestMemberService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades documents before removing the member", func(t *testing.T) {
		mRepo := new(repoMocks.MockMemberRepository)
		mDocRepo := new(repoMocks.MockDocumentRepository)
		mVault := new(vaultMocks.MockVault)
		docs := NewDocumentService(mDocRepo, mRepo, mVault)
		svc := NewMemberService(mRepo, docs)

		mRepo.On("FindByID", ctx, int64(3)).Return(&model.Member{ID: 3}, nil)
		mDocRepo.On("ListByMember", ctx, int64(3)).Return([]model.Document{
			{ID: 10, MemberID: 3, FilePath: "a.pdf"},
			{ID: 11, MemberID: 3, FilePath: "b.jpg"},
		}, nil)
		mVault.On("Delete", ctx, "a.pdf").Return(nil)
		mVault.On("Delete", ctx, "b.jpg").Return(errors.New("unlink fail"))
		mDocRepo.On("DeleteByMember", ctx, int64(3)).Return(nil)
		mRepo.On("Delete", ctx, int64(3)).Return(nil)

		res, err := svc.Delete(ctx, 3)

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Deleted)
		assert.Equal(t, []string{"b.jpg"}, res.FailedFiles)
		mRepo.AssertExpectations(t)
		mDocRepo.AssertExpectations(t)
		mVault.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockMemberRepository)
		svc := NewMemberService(mRepo, nil)

		mRepo.On("FindByID", ctx, int64(3)).Return(nil, sql.ErrNoRows)

		res, err := svc.Delete(ctx, 3)

		assert.ErrorIs(t, err, ErrMemberNotFound)
		assert.Nil(t, res)
		mRepo.AssertExpectations(t)
	})
}
