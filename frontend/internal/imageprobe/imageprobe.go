// Package imageprobe learns the natural pixel size of a remote image, the
// input an image card needs to auto-fit itself.
package imageprobe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/validation"
)

// headerBudget bounds how much of the body is read; image headers of all
// registered formats fit well within it.
const headerBudget = 1 << 20

type Prober struct {
	base   *url.URL
	client *http.Client
}

// New resolves relative image URLs against baseURL (usually the persistence
// service, which serves uploads).
func New(baseURL string) (*Prober, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	return &Prober{base: base, client: &http.Client{Timeout: 20 * time.Second}}, nil
}

// NaturalSize fetches just enough of the image at rawURL to read its size.
func (p *Prober) NaturalSize(ctx context.Context, rawURL string) (int, int, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid image url %q: %w", rawURL, err)
	}
	target := p.base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("image unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, &internal_errors.ErrorWithStatusCode{
			Message: fmt.Sprintf("image %s returned status %d", target, resp.StatusCode), StatusCode: resp.StatusCode,
		}
	}

	w, h, _, err := validation.ImageSize(io.LimitReader(resp.Body, headerBudget))
	if err != nil {
		return 0, 0, fmt.Errorf("image %s: %w", target, err)
	}
	return w, h, nil
}
