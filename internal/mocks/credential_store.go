package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// CredentialStore is a mock for model.CredentialStore.
type CredentialStore struct {
	mock.Mock
}

func (m *CredentialStore) Get(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *CredentialStore) Set(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *CredentialStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
