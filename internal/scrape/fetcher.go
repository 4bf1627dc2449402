// Package scrape fetches candidate article pages and extracts their main
// text. Known publishers get a structure-specific extraction rule; unknown
// pages fall through to a generic readability pass.
package scrape

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_fetcher.go -package=mocks market-octopus/internal/scrape Fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"market-octopus/internal/retry"
)

const userAgent = "Mozilla/5.0"

// Fetcher retrieves the raw HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implements Fetcher with a shared rate limit so the concurrent
// retrieval fan-out cannot hammer publisher sites.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a fetcher allowing perSecond requests per second.
func NewHTTPFetcher(perSecond float64) *HTTPFetcher {
	return &HTTPFetcher{
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Fetch retrieves the page body as text.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", retry.Transient(fmt.Errorf("failed to fetch %s: %w", url, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("bad status %d fetching %s", resp.StatusCode, url)
		if resp.StatusCode >= 500 {
			return "", retry.Transient(err)
		}
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retry.Transient(fmt.Errorf("failed to read body of %s: %w", url, err))
	}
	return string(body), nil
}
