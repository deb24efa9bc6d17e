package mocks

import (
	"context"
	"io"

	"memberdocs/internal/vault"

	"github.com/stretchr/testify/mock"
)

type MockVault struct {
	mock.Mock
}

func (m *MockVault) Store(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (string, error) {
	args := m.Called(ctx, r, originalName, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockVault) Open(ctx context.Context, path string) (io.ReadCloser, vault.FileInfo, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Get(1).(vault.FileInfo), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(vault.FileInfo), args.Error(2)
}

func (m *MockVault) Exists(ctx context.Context, path string) bool {
	args := m.Called(ctx, path)
	return args.Bool(0)
}

func (m *MockVault) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockVault) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
