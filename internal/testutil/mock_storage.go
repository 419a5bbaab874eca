//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/hexdeck-client/internal/credstore"
)

// MockBackend 凭据存储后端 mock
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Load(ctx context.Context, slot credstore.Slot) (credstore.Record, error) {
	args := m.Called(ctx, slot)
	return args.Get(0).(credstore.Record), args.Error(1)
}

func (m *MockBackend) Store(ctx context.Context, slot credstore.Slot, rec credstore.Record) error {
	args := m.Called(ctx, slot, rec)
	return args.Error(0)
}

func (m *MockBackend) Delete(ctx context.Context, slot credstore.Slot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}
