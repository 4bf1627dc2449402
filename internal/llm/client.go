package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"market-octopus/internal/retry"
)

// Client is a client for an OpenAI-compatible chat completions API.
// Server errors and timeouts surface as retry.ErrTransient so callers can
// apply their retry budget; a timed-out call is retryable, not fatal.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	client  *http.Client
}

// NewClient creates a new LLM client. timeout bounds each individual call.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Timeout: timeout,
		client:  http.DefaultClient,
	}
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// ResponseFormat selects the structured-output mode of the completions API.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// Chat sends a blocking chat completion request and returns the reply text.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, nil)
}

// ChatJSON sends a chat completion request in JSON response mode.
// The returned string is the raw model output; callers parse and validate it.
func (c *Client) ChatJSON(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, messages, &ResponseFormat{Type: "json_object"})
}

func (c *Client) complete(ctx context.Context, messages []Message, format *ResponseFormat) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	payload := ChatRequest{
		Model:          c.Model,
		Messages:       messages,
		ResponseFormat: format,
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", retry.Malformed(fmt.Errorf("failed to decode response: %w", err))
	}
	if len(chatResp.Choices) == 0 {
		return "", retry.Malformed(fmt.Errorf("no choices returned"))
	}
	return chatResp.Choices[0].Message.Content, nil
}

// StreamChat sends a streaming chat completion request and calls the callback
// for each content chunk as it arrives over Server-Sent Events.
func (c *Client) StreamChat(ctx context.Context, messages []Message, callback func(chunk string) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	payload := ChatRequest{
		Model:    c.Model,
		Messages: messages,
		Stream:   true,
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		return err
	}

	scanner := bufio.NewScanner(resp.Body)
	const dataPrefix = "data: "
	const doneMarker = "[DONE]"

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := strings.TrimPrefix(line, dataPrefix)
		if data == doneMarker {
			break
		}

		var streamResp struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
				FinishReason string `json:"finish_reason"`
			} `json:"choices"`
		}
		if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
			// Skip malformed SSE chunks
			continue
		}
		if len(streamResp.Choices) == 0 {
			continue
		}
		if chunk := streamResp.Choices[0].Delta.Content; chunk != "" {
			if err := callback(chunk); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}
		if streamResp.Choices[0].FinishReason != "" {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return retry.Transient(fmt.Errorf("failed to read stream: %w", err))
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload ChatRequest) (*http.Response, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")
	if payload.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, retry.Transient(fmt.Errorf("failed to send request: %w", err))
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	raw, _ := io.ReadAll(resp.Body)
	err := fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return retry.Transient(err)
	}
	return err
}
