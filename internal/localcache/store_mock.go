package localcache

import (
	"context"

	"github.com/huangsam/localcache/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.Store = &MockStore{} // Compile-time check

// Available implements the Store interface.
func (m *MockStore) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// Len implements the Store interface.
func (m *MockStore) Len(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// Key implements the Store interface.
func (m *MockStore) Key(ctx context.Context, index int) (string, error) {
	args := m.Called(ctx, index)
	return args.String(0), args.Error(1)
}

// GetItem implements the Store interface.
func (m *MockStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// SetItem implements the Store interface.
func (m *MockStore) SetItem(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// RemoveItem implements the Store interface.
func (m *MockStore) RemoveItem(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
