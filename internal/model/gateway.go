package model

import (
	"context"
	"net/url"
)

// Gateway is the single point of egress for backend calls. Every
// method decodes a JSON response body into out when out is non-nil.
// Implementations attach the current credential to each request and
// surface backend failures as structured errors.
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, body any, out any) error
	PostForm(ctx context.Context, path string, form url.Values, out any) error
	Put(ctx context.Context, path string, query url.Values, out any) error
	Delete(ctx context.Context, path string, out any) error
}
