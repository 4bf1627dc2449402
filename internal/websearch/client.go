// Package websearch wraps the programmable search API used for news
// retrieval. Queries are date-bounded and routed to a source set (domestic or
// foreign publisher list); the response envelope carries a spelling
// correction the retriever uses when a query returns nothing.
package websearch

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_search_api.go -package=mocks market-octopus/internal/websearch SearchAPI

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"market-octopus/internal/contextutil"
	"market-octopus/internal/retry"
)

// SourceSet selects which publisher list a query runs against.
type SourceSet string

const (
	SourceSetDomestic SourceSet = "domestic"
	SourceSetForeign  SourceSet = "foreign"
)

// Item is one search hit.
type Item struct {
	Title       string
	URL         string
	PublishedAt time.Time
}

// Response is the search result envelope.
type Response struct {
	Items []Item
	// TotalResults as reported by the API. Zero with a non-empty
	// CorrectedQuery means the caller should retry with the correction.
	TotalResults   int
	CorrectedQuery string
}

// SearchAPI is the consumer-side interface the retriever depends on.
type SearchAPI interface {
	// Search runs a date-bounded query against one source set.
	Search(ctx context.Context, query string, sourceSet SourceSet, window time.Duration) (*Response, error)
}

// Client implements SearchAPI against a Google-CSE-compatible endpoint.
type Client struct {
	BaseURL        string
	APIKey         string
	EngineDomestic string
	EngineForeign  string
	client         *http.Client
	now            func() time.Time
}

// NewClient creates a new search client. engineDomestic/engineForeign are the
// per-source-set engine identifiers.
func NewClient(baseURL, apiKey, engineDomestic, engineForeign string) *Client {
	return &Client{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		EngineDomestic: engineDomestic,
		EngineForeign:  engineForeign,
		client:         http.DefaultClient,
		now:            time.Now,
	}
}

type apiResponse struct {
	SearchInformation struct {
		TotalResults string `json:"totalResults"`
	} `json:"searchInformation"`
	Spelling struct {
		CorrectedQuery string `json:"correctedQuery"`
	} `json:"spelling"`
	Items []apiItem `json:"items"`
}

type apiItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Pagemap struct {
		Metatags []map[string]string `json:"metatags"`
	} `json:"pagemap"`
}

// Search runs a date-bounded query against one source set.
func (c *Client) Search(ctx context.Context, query string, sourceSet SourceSet, window time.Duration) (*Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	engine := c.EngineDomestic
	if sourceSet == SourceSetForeign {
		engine = c.EngineForeign
	}

	end := c.now()
	start := end.Add(-window)

	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("cx", engine)
	params.Set("q", query)
	params.Set("num", "10")
	params.Set("sort", fmt.Sprintf("date:r:%s:%s", start.Format("20060102"), end.Format("20060102")))

	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, retry.Transient(fmt.Errorf("failed to send request: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, retry.Transient(err)
		}
		return nil, err
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &Response{
		CorrectedQuery: apiResp.Spelling.CorrectedQuery,
	}
	_, _ = fmt.Sscanf(apiResp.SearchInformation.TotalResults, "%d", &result.TotalResults)

	for _, item := range apiResp.Items {
		publishedAt := publishedTime(item)
		result.Items = append(result.Items, Item{
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt,
		})
	}

	logger.DebugContext(ctx, "search completed",
		"query", query, "source_set", string(sourceSet), "items", len(result.Items))
	return result, nil
}

// publishedTime reads the article publication time from page metatags.
// A missing or unparseable tag yields the zero time; the item is still usable.
func publishedTime(item apiItem) time.Time {
	for _, tags := range item.Pagemap.Metatags {
		raw, ok := tags["article:published_time"]
		if !ok {
			continue
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-07:00", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
