package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"market-octopus/internal/contextutil"
	"market-octopus/internal/llm"
	"market-octopus/internal/retry"
)

// Extractor pulls short news search queries out of a question.
type Extractor struct {
	chat ChatClient
}

// NewExtractor creates a query extractor.
func NewExtractor(chat ChatClient) *Extractor {
	return &Extractor{chat: chat}
}

// ExtractQueries returns search-engine queries for the question, most
// important first. An empty result is valid and means the news branch is
// skipped; extraction failures degrade to empty rather than failing the round.
func (e *Extractor) ExtractQueries(ctx context.Context, question string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := "Extract up to three short news search queries from the user's question " +
		"about financial markets, most important first. Keep each query under six words " +
		"and in the question's language. If the question needs no news search, return an empty list.\n" +
		`Respond with JSON: {"queries": ["<query>", ...]}`

	queries, err := retry.Do(ctx, attempts, func(ctx context.Context) ([]string, error) {
		raw, err := e.chat.ChatJSON(ctx, []llm.Message{llm.System(prompt), llm.User(question)})
		if err != nil {
			return nil, err
		}
		return parseQueries(raw)
	})
	if err != nil {
		logger.WarnContext(ctx, "query extraction failed, skipping news search",
			"question", question, "error", err)
		return nil
	}
	return queries
}

func parseQueries(raw string) ([]string, error) {
	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, retry.Malformed(fmt.Errorf("failed to parse queries: %w", err))
	}
	out := parsed.Queries[:0]
	for _, q := range parsed.Queries {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}
