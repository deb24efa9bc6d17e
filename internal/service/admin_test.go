package service

import (
	"context"
	"database/sql"
	"testing"

	"memberdocs/internal/config"
	"memberdocs/internal/model"
	repoMocks "memberdocs/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "admin123",
		RecoveryKey:   "RESCUE-KEY",
	}
}

func hashOf(t *testing.T, s string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestAuthService_EnsureDefaultAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds when no admin exists", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("Count", ctx).Return(0, nil)
		mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Admin) bool {
			return a.Username == "admin" &&
				bcrypt.CompareHashAndPassword(a.PasswordHash, []byte("admin123")) == nil
		})).Return(&model.Admin{ID: 1, Username: "admin"}, nil)

		assert.NoError(t, svc.EnsureDefaultAdmin(ctx))
		mRepo.AssertExpectations(t)
	})

	t.Run("skips when an admin already exists", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("Count", ctx).Return(1, nil)

		assert.NoError(t, svc.EnsureDefaultAdmin(ctx))
		mRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		password       string
		setupMocks     func(t *testing.T, mRepo *repoMocks.MockAdminRepository)
		wantErr        error
		wantNeedsSetup bool
	}{
		{
			name:     "happy path without security question",
			password: "admin123",
			setupMocks: func(t *testing.T, mRepo *repoMocks.MockAdminRepository) {
				mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{
					ID:           1,
					Username:     "admin",
					PasswordHash: hashOf(t, "admin123"),
				}, nil)
			},
			wantNeedsSetup: true,
		},
		{
			name:     "happy path with security question set",
			password: "admin123",
			setupMocks: func(t *testing.T, mRepo *repoMocks.MockAdminRepository) {
				q := "First pet?"
				mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{
					ID:               1,
					Username:         "admin",
					PasswordHash:     hashOf(t, "admin123"),
					SecurityQuestion: &q,
				}, nil)
			},
		},
		{
			name:     "wrong password",
			password: "nope",
			setupMocks: func(t *testing.T, mRepo *repoMocks.MockAdminRepository) {
				mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{
					ID:           1,
					Username:     "admin",
					PasswordHash: hashOf(t, "admin123"),
				}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown username maps to invalid credentials",
			password: "admin123",
			setupMocks: func(t *testing.T, mRepo *repoMocks.MockAdminRepository) {
				mRepo.On("FindByUsername", ctx, "admin").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAdminRepository)
			svc := NewAuthService(mRepo, authCfg())

			tt.setupMocks(t, mRepo)

			token, needsSetup, err := svc.Login(ctx, "admin", tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.wantNeedsSetup, needsSetup)

				id, username, perr := svc.ParseToken(token)
				assert.NoError(t, perr)
				assert.Equal(t, int64(1), id)
				assert.Equal(t, "admin", username)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ParseToken(t *testing.T) {
	svc := NewAuthService(nil, authCfg())

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(nil, config.AuthConfig{JWTSecret: "other-secret"})
		token, err := other.(*authService).signToken(&model.Admin{ID: 1, Username: "admin"})
		require.NoError(t, err)

		_, _, err = svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.(*authService).signToken(&model.Admin{ID: 1, Username: "admin"})
		require.NoError(t, err)

		id, username, err := svc.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, "admin", username)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Admin{
			ID:           1,
			PasswordHash: hashOf(t, "old-pass"),
		}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Admin) bool {
			return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte("new-pass")) == nil
		})).Return(&model.Admin{ID: 1}, nil)

		assert.NoError(t, svc.ChangePassword(ctx, 1, "old-pass", "new-pass"))
		mRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Admin{
			ID:           1,
			PasswordHash: hashOf(t, "old-pass"),
		}, nil)

		assert.ErrorIs(t, svc.ChangePassword(ctx, 1, "wrong", "new-pass"), ErrInvalidCredentials)
		mRepo.AssertExpectations(t)
	})
}

func TestAuthService_SecurityFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("set stores lowercased answer hash", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByID", ctx, int64(1)).Return(&model.Admin{ID: 1}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Admin) bool {
			return a.SecurityQuestion != nil && *a.SecurityQuestion == "First pet?" &&
				bcrypt.CompareHashAndPassword(a.SecurityAnswer, []byte("rex")) == nil
		})).Return(&model.Admin{ID: 1}, nil)

		assert.NoError(t, svc.SetSecurity(ctx, 1, "First pet?", "REX"))
		mRepo.AssertExpectations(t)
	})

	t.Run("question lookup", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		q := "First pet?"
		mRepo.On("FindByUsername", ctx, "admin").
			Return(&model.Admin{ID: 1, SecurityQuestion: &q}, nil)

		got, err := svc.SecurityQuestion(ctx, "admin")
		assert.NoError(t, err)
		assert.Equal(t, "First pet?", got)
	})

	t.Run("question not set", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{ID: 1}, nil)

		_, err := svc.SecurityQuestion(ctx, "admin")
		assert.ErrorIs(t, err, ErrSecurityNotSet)
	})

	t.Run("verify matches case-insensitively and resets", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{
			ID:             1,
			SecurityAnswer: hashOf(t, "rex"),
		}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Admin) bool {
			return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte("fresh-pass")) == nil
		})).Return(&model.Admin{ID: 1}, nil)

		assert.NoError(t, svc.VerifySecurityAndReset(ctx, "admin", "Rex", "fresh-pass"))
		mRepo.AssertExpectations(t)
	})

	t.Run("wrong answer", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{
			ID:             1,
			SecurityAnswer: hashOf(t, "rex"),
		}, nil)

		assert.ErrorIs(t, svc.VerifySecurityAndReset(ctx, "admin", "fido", "fresh-pass"), ErrIncorrectAnswer)
	})
}

func TestAuthService_EmergencyReset(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockAdminRepository)
		svc := NewAuthService(mRepo, authCfg())

		mRepo.On("FindByUsername", ctx, "admin").Return(&model.Admin{ID: 1}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(a *model.Admin) bool {
			return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte("fresh-pass")) == nil
		})).Return(&model.Admin{ID: 1}, nil)

		assert.NoError(t, svc.EmergencyReset(ctx, "admin", "RESCUE-KEY", "fresh-pass"))
		mRepo.AssertExpectations(t)
	})

	t.Run("wrong key", func(t *testing.T) {
		svc := NewAuthService(nil, authCfg())
		assert.ErrorIs(t, svc.EmergencyReset(ctx, "admin", "guess", "fresh-pass"), ErrInvalidRecoveryKey)
	})

	t.Run("reset disabled when no key configured", func(t *testing.T) {
		cfg := authCfg()
		cfg.RecoveryKey = ""
		svc := NewAuthService(nil, cfg)
		assert.ErrorIs(t, svc.EmergencyReset(ctx, "admin", "", "fresh-pass"), ErrInvalidRecoveryKey)
	})
}
