// Package classify runs the two LLM preprocessing steps of a question round:
// intent classification against the fixed taxonomy and search query
// extraction. Both use JSON response mode with a bounded retry budget and
// degrade to a safe default instead of failing the pipeline.
package classify

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_client.go -package=mocks market-octopus/internal/classify ChatClient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"market-octopus/internal/contextutil"
	"market-octopus/internal/intent"
	"market-octopus/internal/llm"
	"market-octopus/internal/retry"
)

const attempts = 3

// ChatClient is the JSON-mode completion interface the classifier consumes.
type ChatClient interface {
	ChatJSON(ctx context.Context, messages []llm.Message) (string, error)
}

// Classifier assigns a question to the intent taxonomy.
type Classifier struct {
	chat ChatClient
}

// NewClassifier creates a classifier.
func NewClassifier(chat ChatClient) *Classifier {
	return &Classifier{chat: chat}
}

// Classify returns the question's intent. Classification never fails the
// round: after the retry budget is spent, or when the model returns a value
// outside the taxonomy on the final attempt, the default intent is used.
func (c *Classifier) Classify(ctx context.Context, question string) intent.Intent {
	logger := contextutil.LoggerFromContext(ctx)

	primary, err := retry.Do(ctx, attempts, func(ctx context.Context) (intent.Primary, error) {
		return c.classifyPrimary(ctx, question)
	})
	if err != nil {
		logger.WarnContext(ctx, "intent classification failed, using default",
			"question", question, "error", err)
		return intent.Default()
	}

	result := intent.Intent{Primary: primary}
	if !primary.HasSecondary() {
		return result
	}

	secondary, err := retry.Do(ctx, attempts, func(ctx context.Context) (intent.Secondary, error) {
		return c.classifySecondary(ctx, question, primary)
	})
	if err != nil {
		logger.WarnContext(ctx, "secondary classification failed, keeping primary only",
			"question", question, "primary", string(primary), "error", err)
		return result
	}
	result.Secondary = &secondary
	return result
}

func (c *Classifier) classifyPrimary(ctx context.Context, question string) (intent.Primary, error) {
	var categories []string
	for _, p := range intent.Primaries() {
		categories = append(categories, string(p))
	}

	prompt := fmt.Sprintf(
		"Classify the user's question about financial markets into exactly one category.\n"+
			"Allowed categories: %s\n"+
			`Respond with JSON: {"category": "<one of the allowed categories>"}`,
		strings.Join(categories, ", "))

	raw, err := c.chat.ChatJSON(ctx, []llm.Message{llm.System(prompt), llm.User(question)})
	if err != nil {
		return "", err
	}

	label, err := parseCategory(raw)
	if err != nil {
		return "", err
	}
	primary, ok := intent.ParsePrimary(label)
	if !ok {
		return "", retry.Malformed(fmt.Errorf("category %q is not in the taxonomy", label))
	}
	return primary, nil
}

func (c *Classifier) classifySecondary(ctx context.Context, question string, primary intent.Primary) (intent.Secondary, error) {
	var categories []string
	for _, s := range intent.SecondariesFor(primary) {
		categories = append(categories, string(s))
	}

	prompt := fmt.Sprintf(
		"The question belongs to the %q category. Classify it into exactly one subcategory.\n"+
			"Allowed subcategories: %s\n"+
			`Respond with JSON: {"category": "<one of the allowed subcategories>"}`,
		string(primary), strings.Join(categories, ", "))

	raw, err := c.chat.ChatJSON(ctx, []llm.Message{llm.System(prompt), llm.User(question)})
	if err != nil {
		return "", err
	}

	label, err := parseCategory(raw)
	if err != nil {
		return "", err
	}
	secondary, ok := intent.ParseSecondary(primary, label)
	if !ok {
		return "", retry.Malformed(fmt.Errorf("subcategory %q is not allowed under %q", label, string(primary)))
	}
	return secondary, nil
}

func parseCategory(raw string) (string, error) {
	var parsed struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", retry.Malformed(fmt.Errorf("failed to parse classification: %w", err))
	}
	if parsed.Category == "" {
		return "", retry.Malformed(fmt.Errorf("classification missing category field"))
	}
	return parsed.Category, nil
}
