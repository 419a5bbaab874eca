//go:build !production

package testutil

import "github.com/stretchr/testify/mock"

// MockObserver 请求结果观察者 mock，实现 api.Observer
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveRequest(endpoint, outcome string) {
	m.Called(endpoint, outcome)
}
