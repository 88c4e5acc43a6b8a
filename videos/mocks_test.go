package videos

import (
	"context"

	"github.com/GhazanSubz/fypstudio-api/models"
	"github.com/GhazanSubz/fypstudio-api/storage"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Insert(ctx context.Context, video *models.Video) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, userID, id uint) (*models.Video, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, userID, id uint) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockStore) Recent(ctx context.Context, userID uint, limit int) ([]models.Video, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.Video), args.Error(1)
}

func (m *MockStore) Exports(ctx context.Context, userID uint) ([]models.Video, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Video), args.Error(1)
}

func (m *MockStore) MarkDownloaded(ctx context.Context, userID, id uint, filename, url string) error {
	args := m.Called(ctx, userID, id, filename, url)
	return args.Error(0)
}

func (m *MockStore) Filenames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockObjectStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStore) Rename(ctx context.Context, oldKey, newKey string) error {
	args := m.Called(ctx, oldKey, newKey)
	return args.Error(0)
}

func (m *MockObjectStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]storage.ObjectInfo), args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	args := m.Called(ctx, queueName, payload)
	return args.Error(0)
}
