package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock for model.Gateway.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	args := m.Called(ctx, path, query, out)
	return args.Error(0)
}

func (m *Gateway) PostJSON(ctx context.Context, path string, body any, out any) error {
	args := m.Called(ctx, path, body, out)
	return args.Error(0)
}

func (m *Gateway) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	args := m.Called(ctx, path, form, out)
	return args.Error(0)
}

func (m *Gateway) Put(ctx context.Context, path string, query url.Values, out any) error {
	args := m.Called(ctx, path, query, out)
	return args.Error(0)
}

func (m *Gateway) Delete(ctx context.Context, path string, out any) error {
	args := m.Called(ctx, path, out)
	return args.Error(0)
}
