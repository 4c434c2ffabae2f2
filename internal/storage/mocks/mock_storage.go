package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"azimute/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MockStorage records the body of every Put so tests can check what was archived.
type MockStorage struct {
	mock.Mock

	mu      sync.Mutex
	uploads map[string][]byte
}

// Uploaded returns the bytes stored under key by Put, or nil.
func (m *MockStorage) Uploaded(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads[key]
}

func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	args := m.Called(ctx, key, bytes.NewReader(body), opt)
	if err := args.Error(1); err != nil {
		return storage.ObjectInfo{}, err
	}

	m.mu.Lock()
	if m.uploads == nil {
		m.uploads = make(map[string][]byte)
	}
	m.uploads[key] = body
	m.mu.Unlock()

	if fn, ok := args.Get(0).(func(context.Context, string, io.Reader, storage.PutObjectOptions) storage.ObjectInfo); ok {
		return fn(ctx, key, bytes.NewReader(body), opt), nil
	}
	return args.Get(0).(storage.ObjectInfo), nil
}

func (m *MockStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
