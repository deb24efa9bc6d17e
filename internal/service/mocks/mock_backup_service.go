package mocks

import (
	"context"
	"io"

	"memberdocs/internal/model"
	"memberdocs/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockBackupService struct {
	mock.Mock
}

func (m *MockBackupService) BuildRawSnapshot(ctx context.Context) (*service.RawSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RawSnapshot), args.Error(1)
}

func (m *MockBackupService) WriteRawSnapshot(snap *service.RawSnapshot, w io.Writer) error {
	args := m.Called(snap, w)
	return args.Error(0)
}

func (m *MockBackupService) OpenStorageFile(ctx context.Context) (io.ReadCloser, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}

func (m *MockBackupService) WriteFilesArchive(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockBackupService) WriteFullBundle(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockBackupService) PrepareMemberBundle(ctx context.Context, memberID int64) (*model.Member, []model.Document, error) {
	args := m.Called(ctx, memberID)
	var member *model.Member
	if args.Get(0) != nil {
		member = args.Get(0).(*model.Member)
	}
	var docs []model.Document
	if args.Get(1) != nil {
		docs = args.Get(1).([]model.Document)
	}
	return member, docs, args.Error(2)
}

func (m *MockBackupService) WriteMemberBundle(ctx context.Context, docs []model.Document, w io.Writer) error {
	args := m.Called(ctx, docs, w)
	return args.Error(0)
}
