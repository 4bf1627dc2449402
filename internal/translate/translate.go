// Package translate renders foreign-language report excerpts into the
// question's language before they enter a prompt.
package translate

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_translator.go -package=mocks market-octopus/internal/translate Translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"market-octopus/internal/retry"
)

// Translator is the consumer-side translation interface. A disabled
// translator returns the inputs unchanged.
type Translator interface {
	// Translate returns one translation per input text, in order.
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// Noop passes texts through untranslated. Used when no translation backend is
// configured.
type Noop struct{}

// Translate returns the inputs unchanged.
func (Noop) Translate(_ context.Context, texts []string, _ string) ([]string, error) {
	return texts, nil
}

const defaultPageSize = 10

// Client implements Translator against a batch translation HTTP API.
type Client struct {
	BaseURL string
	APIKey  string
	// PageSize bounds how many texts go into one request.
	PageSize int
	client   *http.Client
}

// NewClient creates a translation client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		PageSize: defaultPageSize,
		client:   http.DefaultClient,
	}
}

type apiRequest struct {
	Texts      []string `json:"texts"`
	TargetLang string   `json:"target_lang"`
}

type apiResponse struct {
	Translations []string `json:"translations"`
}

// Translate translates texts in pages of PageSize, preserving order.
func (c *Client) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	pageSize := c.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	out := make([]string, 0, len(texts))
	for start := 0; start < len(texts); start += pageSize {
		end := start + pageSize
		if end > len(texts) {
			end = len(texts)
		}
		page, err := c.translatePage(ctx, texts[start:end], targetLang)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
	}
	return out, nil
}

func (c *Client) translatePage(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	body, err := json.Marshal(apiRequest{Texts: texts, TargetLang: targetLang})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/translate", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

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
	if len(apiResp.Translations) != len(texts) {
		return nil, fmt.Errorf("expected %d translations, got %d", len(texts), len(apiResp.Translations))
	}
	return apiResp.Translations, nil
}
