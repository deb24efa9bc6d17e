package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) EnsureDefaultAdmin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, bool, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	args := m.Called(ctx, adminID, current, next)
	return args.Error(0)
}

func (m *MockAuthService) SetSecurity(ctx context.Context, adminID int64, question, answer string) error {
	args := m.Called(ctx, adminID, question, answer)
	return args.Error(0)
}

func (m *MockAuthService) SecurityQuestion(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) VerifySecurityAndReset(ctx context.Context, username, answer, newPassword string) error {
	args := m.Called(ctx, username, answer, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) EmergencyReset(ctx context.Context, username, recoveryKey, newPassword string) error {
	args := m.Called(ctx, username, recoveryKey, newPassword)
	return args.Error(0)
}

func (m *MockAuthService) ParseToken(token string) (int64, string, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}
