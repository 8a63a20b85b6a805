package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/founderbridge/backend/internal/repository"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (*repository.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Document), args.Error(1)
}

func (m *mockStore) Add(ctx context.Context, collection string, data repository.Fields) (string, error) {
	args := m.Called(ctx, collection, data)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, collection, id string, data repository.Fields) error {
	return m.Called(ctx, collection, id, data).Error(0)
}

func (m *mockStore) Merge(ctx context.Context, collection, id string, data repository.Fields) error {
	return m.Called(ctx, collection, id, data).Error(0)
}

func (m *mockStore) List(ctx context.Context, collection string) ([]repository.Document, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Document), args.Error(1)
}

func (m *mockStore) Where(ctx context.Context, collection, field, value string) ([]repository.Document, error) {
	args := m.Called(ctx, collection, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.Document), args.Error(1)
}
