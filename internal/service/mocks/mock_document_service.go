package mocks

import (
	"context"
	"io"

	"visadocs/internal/model"
	"visadocs/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, ownerID string) (*model.DocumentGroups, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentGroups), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, ownerID string, r io.Reader, in service.UploadInput) (*model.Document, error) {
	args := m.Called(ctx, ownerID, r, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, ownerID, documentID string) error {
	args := m.Called(ctx, ownerID, documentID)
	return args.Error(0)
}

func (m *MockDocumentService) Download(ctx context.Context, ownerID, documentID string) (*service.Download, error) {
	args := m.Called(ctx, ownerID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}
