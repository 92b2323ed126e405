package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/noah-isme/backend-kasir/internal/resilience"
)

// ErrRender indicates the external QR renderer failed. Non-fatal: the
// channel stays selected and the payload degrades to text-only display.
var ErrRender = errors.New("qr render failed")

// Renderer produces a scannable image for the exact payload string. The
// engine never touches image bytes beyond passing them through.
type Renderer interface {
	Render(ctx context.Context, payload string, size int) ([]byte, error)
}

// HTTPRenderer calls an external QR image service over HTTP through a
// circuit-breaking client.
type HTTPRenderer struct {
	BaseURL string
	Client  *resilience.HTTPClient
}

// Render requests a size×size PNG for the payload.
func (r HTTPRenderer) Render(ctx context.Context, payload string, size int) ([]byte, error) {
	if r.Client == nil || r.BaseURL == "" {
		return nil, fmt.Errorf("renderer not configured: %w", ErrRender)
	}
	if size <= 0 {
		size = 256
	}
	endpoint, err := url.Parse(r.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse renderer url: %w", ErrRender)
	}
	q := endpoint.Query()
	q.Set("size", fmt.Sprintf("%dx%d", size, size))
	q.Set("data", payload)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRender, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRender, resp.StatusCode)
	}
	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %s", ErrRender, err)
	}
	return image, nil
}
