package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uplyft/shopchat-client/internal/logger"
	"github.com/uplyft/shopchat-client/internal/model"
)

// Gateway is the single configured HTTP client shared by all stores.
// It attaches the current credential to every outgoing request and
// handles unauthorized responses uniformly: the durable credential
// slot is erased, subscribers are notified, and the failure is
// propagated to the caller. All other failures pass through
// unmodified; the gateway never retries.
type Gateway struct {
	baseURL     *url.URL
	client      *http.Client
	credentials model.CredentialStore
	logger      *logger.Logger

	mu             sync.Mutex
	onUnauthorized []func()
}

var _ model.Gateway = (*Gateway)(nil)

// New creates a Gateway for the given base endpoint. The timeout is a
// fixed per-request bound; callers cannot extend it.
func New(baseURL string, timeout time.Duration, credentials model.CredentialStore, logger *logger.Logger) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	return &Gateway{
		baseURL:     u,
		client:      &http.Client{Timeout: timeout},
		credentials: credentials,
		logger:      logger,
	}, nil
}

// OnUnauthorized registers fn to be called whenever any request comes
// back unauthorized. The session store subscribes here so a 401 from
// any store's call tears down the whole session.
func (g *Gateway) OnUnauthorized(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onUnauthorized = append(g.onUnauthorized, fn)
}

// Get issues a GET request.
func (g *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// PostJSON issues a POST request with a JSON-encoded body.
func (g *Gateway) PostJSON(ctx context.Context, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return g.do(ctx, http.MethodPost, path, nil, bytes.NewReader(encoded), "application/json", out)
}

// PostForm issues a POST request with a form-encoded body. The login
// endpoint requires this encoding; everything else is JSON.
func (g *Gateway) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return g.do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", out)
}

// Put issues a PUT request. Parameters travel in the query string.
func (g *Gateway) Put(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodPut, path, query, nil, "", out)
}

// Delete issues a DELETE request.
func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodDelete, path, nil, nil, "", out)
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := g.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// The credential is read per request, not cached, so a slot change
	// between requests is picked up immediately.
	token, err := g.credentials.Get(ctx)
	switch {
	case err == nil && token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	case err != nil && !errors.Is(err, model.ErrNotFound):
		g.logger.Error("Gateway: failed to read credential slot",
			"error", err.Error())
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	g.logger.Debug("Gateway: sending request",
		"method", method,
		"path", path,
		"request_id", requestID)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Debug("Gateway: request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err.Error())
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		g.handleUnauthorized(ctx, requestID)
		return &Error{Status: resp.StatusCode, Detail: extractDetail(resp.Body)}
	}

	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Detail: extractDetail(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// handleUnauthorized erases the credential slot before any subscriber
// runs, then fans out the event. The erase is the global side effect:
// whichever store's call failed, the whole session is evicted.
func (g *Gateway) handleUnauthorized(ctx context.Context, requestID string) {
	if err := g.credentials.Clear(ctx); err != nil {
		g.logger.Error("Gateway: failed to erase credential slot",
			"request_id", requestID,
			"error", err.Error())
	}

	g.logger.Info("Gateway: unauthorized response, session evicted",
		"request_id", requestID)

	g.mu.Lock()
	subscribers := make([]func(), len(g.onUnauthorized))
	copy(subscribers, g.onUnauthorized)
	g.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

func extractDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
