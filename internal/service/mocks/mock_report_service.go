package mocks

import (
	"context"
	"io"

	"memberdocs/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Generate(ctx context.Context, memberID int64, w io.Writer) (*model.Member, error) {
	args := m.Called(ctx, memberID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}
